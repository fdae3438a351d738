package results

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EditResponse is the outcome of one applyEdits call.
type EditResponse struct {
	AddResults    []EditResult `json:"addResults"`
	UpdateResults []EditResult `json:"updateResults"`
	DeleteResults []EditResult `json:"deleteResults"`
}

// EditResult is the outcome for a single feature.
type EditResult struct {
	ObjectID int64      `json:"objectId"`
	GlobalID string     `json:"globalId,omitempty"`
	Success  bool       `json:"success"`
	Error    *EditError `json:"error,omitempty"`
}

// EditError describes why a feature edit failed.
// It decodes from either a plain string or a {"code", "description"} object.
type EditError struct {
	Code        int    `json:"code,omitempty"`
	Description string `json:"description"`
}

func (e *EditError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d)", e.Description, e.Code)
	}
	return e.Description
}

func (e *EditError) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Description)
	}

	type plain EditError
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = EditError(p)
	return nil
}

// DeletedObjectIDs returns the object ids whose deletion succeeded.
func (r *EditResponse) DeletedObjectIDs() map[int64]struct{} {
	ids := make(map[int64]struct{})
	if r == nil {
		return ids
	}
	for _, res := range r.DeleteResults {
		if res.Success {
			ids[res.ObjectID] = struct{}{}
		}
	}
	return ids
}
