package model

import "time"

type Conversion struct {
	ID        string    `json:"id" dynamodbav:"PK"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"CreatedAt"`
	Source    string    `json:"source" dynamodbav:"Source"`
	Lines     []string  `json:"lines" dynamodbav:"Lines"`
}
