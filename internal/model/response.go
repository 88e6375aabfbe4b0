package model

// Pagination is the metadata block returned alongside a product page.
// Values are computed server-side; clients display them verbatim.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// Response is the RPC envelope shared by every endpoint. Failures always come
// back as {status:false, message} so clients can tell a negative
// acknowledgement apart from a transport error.
type Response struct {
	Status     bool        `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data interface{}) Response {
	return Response{Status: true, Message: message, Data: data}
}

// Fail builds a failure envelope.
func Fail(message string) Response {
	return Response{Status: false, Message: message}
}
