package model

import "time"

// Response is the current answer a client has given to one catalog question
// for one product. At most one current response exists per
// (userId, productId, question); resubmission replaces it unless the response
// is locked by an approved review comment.
type Response struct {
	ID                  string    `json:"id" bson:"_id,omitempty"`
	UserID              string    `json:"userId" bson:"userId"`
	ProductID           string    `json:"productId" bson:"productId"`
	Section             string    `json:"section" bson:"section"`
	Question            string    `json:"question" bson:"question"`
	QuestionIndex       int       `json:"questionIndex" bson:"questionIndex"`
	Answer              string    `json:"answer" bson:"answer"`
	ClientComment       string    `json:"clientComment,omitempty" bson:"clientComment,omitempty"`
	EvidencePath        string    `json:"evidencePath,omitempty" bson:"evidencePath,omitempty"`
	Score               int       `json:"score" bson:"score"`
	MaxScore            int       `json:"maxScore" bson:"maxScore"`
	IsReviewed          bool      `json:"isReviewed" bson:"isReviewed"`
	NeedsClientResponse bool      `json:"needsClientResponse" bson:"needsClientResponse"`
	CreatedAt           time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" bson:"updatedAt"`
}

// SectionAnswer is one slot of a section submission.
type SectionAnswer struct {
	Question      string        `json:"question"`
	QuestionIndex int           `json:"questionIndex"`
	Answer        string        `json:"answer"`
	Comment       string        `json:"comment,omitempty"`
	Evidence      *EvidenceBlob `json:"-"`
}

// EvidenceBlob is an uploaded evidence file attached to a section answer.
type EvidenceBlob struct {
	Filename string
	Data     []byte
}
