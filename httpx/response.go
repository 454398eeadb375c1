package httpx

import (
	"bytes"
	"net/http"
)

// BufferedResponse captures a handler's response so a middleware can
// inspect the status before deciding whether to forward it.
type BufferedResponse struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func NewBufferedResponse() *BufferedResponse {
	return &BufferedResponse{header: http.Header{}}
}

func (resp *BufferedResponse) Status() int {
	return resp.status
}

func (resp *BufferedResponse) Header() http.Header {
	return resp.header
}

func (resp *BufferedResponse) Body() []byte {
	return resp.body.Bytes()
}

func (resp *BufferedResponse) Write(body []byte) (int, error) {
	return resp.body.Write(body)
}

func (resp *BufferedResponse) WriteHeader(statusCode int) {
	resp.status = statusCode
}

// Flush replays the captured response onto the real writer.
func (resp *BufferedResponse) Flush(w http.ResponseWriter) error {
	header := w.Header()
	for key, value := range resp.header {
		header[key] = value
	}
	if resp.status != 0 {
		w.WriteHeader(resp.status)
	}
	if resp.body.Len() > 0 {
		_, err := w.Write(resp.body.Bytes())
		return err
	}
	return nil
}
