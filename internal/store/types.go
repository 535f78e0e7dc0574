package store

import "time"

type Run struct {
	ID         string
	Project    string
	Model      string
	Difficulty string
	Questions  int
	StartedAt  time.Time
	FinishedAt *time.Time
	Accuracy   *float64
}

type Result struct {
	RunID      string
	Row        int
	Question   string
	Difficulty string
	Expected   []int
	Predicted  []int
	Score      float64
	Error      string
}
