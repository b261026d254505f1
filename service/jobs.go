package service

import (
	"encoding/json"
	"errors"
)

// Queue names. Thumbnail requests and welcome notifications travel on
// separate queues so each worker pool only ever sees one payload shape.
const (
	FileQueue = "queue:file_jobs"
	UserQueue = "queue:user_jobs"
)

// Job is the wire format of both queue payloads. FileID is only set on
// thumbnail jobs. Attempts counts deliveries for the retry policy.
type Job struct {
	FileID   string `json:"fileId,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

func (j *Job) encode() (string, error) {
	b, err := json.Marshal(j)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJob(raw string) (*Job, error) {
	var j Job
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return nil, errors.New("malformed job payload")
	}
	return &j, nil
}
