package family

//go:generate go run ../../../cmd/stepc generate -o .. family.exp
