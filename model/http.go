package model

type ConvertRequestBody struct {
	Text string `json:"text"`
}

type ConvertResponse struct {
	ID    string   `json:"id,omitempty"`
	Lines []string `json:"lines"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
