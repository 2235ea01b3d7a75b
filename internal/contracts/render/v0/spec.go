package v0

// RenderSpec v0: minimal contract for the HTTP renderer.
// - record_id: identifier of the originating row
// - fields: free-form row payload (title, script, image_prompt, ...);
//   which keys the renderer reads is its own business
type RenderSpec struct {
	RecordID string            `json:"record_id"`
	Fields   map[string]string `json:"fields"`
}
