package models

// ListRequest is the query string accepted by the list endpoints.
type ListRequest struct {
	Q        string `query:"q" validate:"max=64"`
	Sort     string `query:"sort" validate:"max=32"`
	Order    string `query:"order" validate:"omitempty,oneof=asc desc"`
	Limit    int    `query:"limit" default:"100" validate:"min=1,max=500"`
	Offset   int    `query:"offset" validate:"min=0"`
	Sector   string `query:"sector" validate:"max=64"`
	Category string `query:"category" validate:"max=64"`
}

// HistoryRequest bounds a summary history read. From and To accept RFC3339 or unix seconds.
type HistoryRequest struct {
	From  string `query:"from"`
	To    string `query:"to"`
	Limit int    `query:"limit" default:"500" validate:"min=1,max=5000"`
}
