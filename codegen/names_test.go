package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "FirstName", exported("first_name"))
	assert.Equal(t, "Schema_", typeName("Schema"))
	assert.Equal(t, "Label", typeName("Label"))
	assert.Equal(t, "EntityKind_", methodName("entity_kind"))
	assert.Equal(t, "Owner", methodName("owner"))
	assert.Equal(t, "birthDate", fieldName("birth_date"))
	assert.Equal(t, "func_", fieldName("func"))
	assert.Equal(t, "ap203", packageName("AP203"))
	assert.Equal(t, "configcontroldesign", packageName("config_control_design"))
	assert.Equal(t, "schema3d", packageName("3d"))
	assert.Equal(t, "HAIR_TYPE", upper("hair_type"))
}

func TestMakeDocs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, makeDocs("", ""))
	assert.Equal(t, "// A.\n//\n// B.\n", makeDocs("A.\n\nB.\n", ""))
	assert.Equal(t, "\t// A.\n", makeDocs("A.", "\t"))
}

func TestRuntimeImportName(t *testing.T) {
	t.Parallel()

	assert.Empty(t, runtimeImportName(DefaultRuntimeImport))
	assert.Equal(t, "step", runtimeImportName("example.com/step/v2"))
}
