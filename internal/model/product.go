package model

import "time"

// Product is the subject of a security-maturity assessment, owned by a client.
type Product struct {
	ID                  string    `json:"id" bson:"_id,omitempty"`
	Name                string    `json:"name" bson:"name"`
	Description         string    `json:"description,omitempty" bson:"description,omitempty"`
	ProductURL          string    `json:"productUrl" bson:"productUrl"`
	ProgrammingLanguage string    `json:"programmingLanguage" bson:"programmingLanguage"`
	CloudPlatform       string    `json:"cloudPlatform" bson:"cloudPlatform"`
	CICDPlatform        string    `json:"cicdPlatform" bson:"cicdPlatform"`
	AdditionalDetails   string    `json:"additionalDetails,omitempty" bson:"additionalDetails,omitempty"`
	OwnerID             string    `json:"ownerId" bson:"ownerId"`
	IsActive            bool      `json:"isActive" bson:"isActive"`
	CreatedAt           time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" bson:"updatedAt"`
}
