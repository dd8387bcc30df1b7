package whatsapp

type SendMessageInput struct {
	PhoneNumber  string   // Ex: "11999999999" or "5511999999999"
	TemplateName string   // Ex: "convenio_ativado"
	Parameters   []string // Ex: []string{"João Silva", "10/01/2026"}
}

type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Error *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}
