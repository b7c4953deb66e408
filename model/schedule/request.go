package schedule

// Job represents a unit of work waiting for a resource
type Job struct {
	ID       string            `json:"id"`
	Size     float64           `json:"size,omitempty"`     //computational size, e.g. MFlops
	Priority int               `json:"priority,omitempty"` //higher first
	Owner    string            `json:"owner,omitempty"`
	Labels   map[string]string `json:"labels,omitempty"`
}

// Resource represents a machine or virtual machine able to host jobs
type Resource struct {
	ID       string            `json:"id"`
	Capacity float64           `json:"capacity,omitempty"` //processing power
	Load     float64           `json:"load,omitempty"`     //currently allocated share
	Slots    int               `json:"slots,omitempty"`    //0 means unbounded
	Labels   map[string]string `json:"labels,omitempty"`
}

// Request represents a single scheduling round
type Request struct {
	Time      float64     `json:"time"`
	Jobs      []*Job      `json:"jobs"`
	Resources []*Resource `json:"resources"`
}

// Job returns job by ID
func (r *Request) Job(id string) *Job {
	for _, job := range r.Jobs {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Resource returns resource by ID
func (r *Request) Resource(id string) *Resource {
	for _, resource := range r.Resources {
		if resource.ID == id {
			return resource
		}
	}
	return nil
}
