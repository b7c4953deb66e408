package schedule

import "fmt"

// Placement binds a job to a resource
type Placement struct {
	JobID      string `json:"jobId"`
	ResourceID string `json:"resourceId"`
}

// Assignment represents an allocator answer to a Request
type Assignment struct {
	Placements []*Placement `json:"placements"`
	Pending    []string     `json:"pending,omitempty"` //jobs left for the next round
}

// Validate checks the assignment only references jobs and resources of the request,
// and that no job is placed twice
func (a *Assignment) Validate(request *Request) error {
	if a == nil {
		return fmt.Errorf("assignment was nil")
	}
	placed := make(map[string]bool, len(a.Placements))
	for _, placement := range a.Placements {
		if request.Job(placement.JobID) == nil {
			return fmt.Errorf("unknown job %q", placement.JobID)
		}
		if request.Resource(placement.ResourceID) == nil {
			return fmt.Errorf("unknown resource %q for job %q", placement.ResourceID, placement.JobID)
		}
		if placed[placement.JobID] {
			return fmt.Errorf("job %q placed more than once", placement.JobID)
		}
		placed[placement.JobID] = true
	}
	for _, id := range a.Pending {
		if placed[id] {
			return fmt.Errorf("job %q both placed and pending", id)
		}
	}
	return nil
}
