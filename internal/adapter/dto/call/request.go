package call

// SearchRequest represents query parameters for call listings and the category view
type SearchRequest struct {
	Query string `query:"q" validate:"max=200"`
}

// ClientsRequest represents query parameters for the client view
type ClientsRequest struct {
	Sort  string `query:"sort" validate:"omitempty,oneof=recent priority risk"`
	Query string `query:"q" validate:"max=200"`
}
