package repository

// Page paginación limit/offset. Limit 0 = sin límite (solo para Each).
type Page struct {
	Limit  int
	Offset int
}
