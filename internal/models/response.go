package models

// APIResponse is the envelope wrapping every JSON body of the API.
type APIResponse struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Message *string `json:"message"`
	Error   *string `json:"error"`
}
