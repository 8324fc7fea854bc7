package cases

// CreateCaseRequest represents the request to create a case
type CreateCaseRequest struct {
	Alias string `json:"alias" validate:"required,notblank,max=255"`
}

// RenameCaseRequest represents the request to change a case alias
type RenameCaseRequest struct {
	Alias string `json:"alias" validate:"required,notblank,max=255"`
}
