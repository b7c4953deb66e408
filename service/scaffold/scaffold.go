// Package scaffold generates the initial source of a new allocator.
package scaffold

import (
	"bytes"
	"text/template"

	"github.com/viant/allocman/service/naming"
)

var skeleton = template.Must(template.New("allocator").Parse(`// Command {{.Name}} is an allocator: it reads a scheduling request as JSON on
// stdin and writes the resulting assignment as JSON on stdout.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

const allocator = {{printf "%q" .Name}}

type Job struct {
	ID       string            ` + "`json:\"id\"`" + `
	Size     float64           ` + "`json:\"size,omitempty\"`" + `
	Priority int               ` + "`json:\"priority,omitempty\"`" + `
	Owner    string            ` + "`json:\"owner,omitempty\"`" + `
	Labels   map[string]string ` + "`json:\"labels,omitempty\"`" + `
}

type Resource struct {
	ID       string            ` + "`json:\"id\"`" + `
	Capacity float64           ` + "`json:\"capacity,omitempty\"`" + `
	Load     float64           ` + "`json:\"load,omitempty\"`" + `
	Slots    int               ` + "`json:\"slots,omitempty\"`" + `
	Labels   map[string]string ` + "`json:\"labels,omitempty\"`" + `
}

type Request struct {
	Time      float64     ` + "`json:\"time\"`" + `
	Jobs      []*Job      ` + "`json:\"jobs\"`" + `
	Resources []*Resource ` + "`json:\"resources\"`" + `
}

type Placement struct {
	JobID      string ` + "`json:\"jobId\"`" + `
	ResourceID string ` + "`json:\"resourceId\"`" + `
}

type Assignment struct {
	Placements []*Placement ` + "`json:\"placements\"`" + `
	Pending    []string     ` + "`json:\"pending,omitempty\"`" + `
}

// schedule places jobs round-robin, highest priority first; a resource with
// Slots > 0 takes at most Slots jobs per round
func schedule(request *Request) *Assignment {
	jobs := append([]*Job{}, request.Jobs...)
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].Priority > jobs[j].Priority })
	assignment := &Assignment{Placements: []*Placement{}}
	used := make([]int, len(request.Resources))
	next := 0
	for _, job := range jobs {
		placed := false
		for tried := 0; tried < len(request.Resources); tried++ {
			index := (next + tried) % len(request.Resources)
			resource := request.Resources[index]
			if resource.Slots > 0 && used[index] >= resource.Slots {
				continue
			}
			used[index]++
			next = index + 1
			assignment.Placements = append(assignment.Placements, &Placement{JobID: job.ID, ResourceID: resource.ID})
			placed = true
			break
		}
		if !placed {
			assignment.Pending = append(assignment.Pending, job.ID)
		}
	}
	return assignment
}

func main() {
	request := &Request{}
	if err := json.NewDecoder(os.Stdin).Decode(request); err != nil {
		fmt.Fprintf(os.Stderr, "%v: invalid request: %v\n", allocator, err)
		os.Exit(1)
	}
	if err := json.NewEncoder(os.Stdout).Encode(schedule(request)); err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", allocator, err)
		os.Exit(1)
	}
}
`))

// Source returns skeleton source for the allocator name
func Source(name string) (string, error) {
	if err := naming.Check(name); err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err := skeleton.Execute(buf, struct{ Name string }{Name: name}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
