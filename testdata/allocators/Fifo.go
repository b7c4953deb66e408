package main

import (
	"encoding/json"
	"os"
)

type request struct {
	Jobs []struct {
		ID string `json:"id"`
	} `json:"jobs"`
	Resources []struct {
		ID string `json:"id"`
	} `json:"resources"`
}

type placement struct {
	JobID      string `json:"jobId"`
	ResourceID string `json:"resourceId"`
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		os.Exit(1)
	}
	placements := []placement{}
	pending := []string{}
	for i, job := range req.Jobs {
		if i < len(req.Resources) {
			placements = append(placements, placement{JobID: job.ID, ResourceID: req.Resources[i].ID})
			continue
		}
		pending = append(pending, job.ID)
	}
	_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{"placements": placements, "pending": pending})
}
