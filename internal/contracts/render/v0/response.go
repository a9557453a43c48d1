package v0

// UnknownRenderError is the message used when a failure carries no text.
const UnknownRenderError = "Unknown rendering error"

// RenderResponse v0: the envelope returned by POST /render for every outcome.
// - success: true only when the image was rendered and stored
// - resultObj: the public image URL, or "" on failure
// - errorMessage: "" on success
type RenderResponse struct {
	Success      bool   `json:"success"`
	ResultObj    string `json:"resultObj"`
	ErrorMessage string `json:"errorMessage"`
}

func Success(url string) RenderResponse {
	return RenderResponse{Success: true, ResultObj: url}
}

// Failure builds a failed envelope. An empty msg becomes UnknownRenderError.
func Failure(msg string) RenderResponse {
	if msg == "" {
		msg = UnknownRenderError
	}
	return RenderResponse{ErrorMessage: msg}
}
