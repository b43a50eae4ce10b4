package models

import "time"

// Donation is a posted food listing, stored in the donated_food collection.
// The id is assigned by the store on creation and never changes; userId is
// fixed at creation. Avatar is a copy of the donor's avatar URL taken when
// the listing was created and is not kept in sync with later profile edits.
type Donation struct {
	ID                 string `json:"id" bson:"_id"`
	FoodName           string `json:"foodName" bson:"foodName"`
	Description        string `json:"description" bson:"description"`
	Location           string `json:"location" bson:"location"`
	ExpiryDate         string `json:"expiryDate" bson:"expiryDate"`
	PickupInstructions string `json:"pickupInstructions" bson:"pickupInstructions"`
	ImageURL           string `json:"imageUrl" bson:"imageUrl"`
	UserID             string `json:"userId" bson:"userId"`
	Avatar             string `json:"avatar" bson:"avatar"`
	CreatedAt          string `json:"createdAt" bson:"createdAt"`
}

// CreateDonationRequest carries the multipart fields of a new listing.
// The image itself is handled separately by the handler.
type CreateDonationRequest struct {
	FoodName           string
	Description        string
	Location           string
	ExpiryDate         string
	PickupInstructions string
	UserID             string
}

func (r *CreateDonationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.FoodName == "" {
		errors["foodName"] = "Food name is required"
	}
	if r.Description == "" {
		errors["description"] = "Description is required"
	}
	if r.Location == "" {
		errors["location"] = "Location is required"
	}
	if r.UserID == "" {
		errors["userId"] = "User ID is required"
	}

	return errors
}

// DonationPatch is a partial update over the mutable Donation fields.
// Nil fields are left untouched on write.
type DonationPatch struct {
	FoodName           *string `json:"foodName"`
	Description        *string `json:"description"`
	Location           *string `json:"location"`
	ExpiryDate         *string `json:"expiryDate"`
	PickupInstructions *string `json:"pickupInstructions"`
	ImageURL           *string `json:"imageUrl"`
}

// Fields returns the set fields as a name -> value map for the store.
func (p *DonationPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.FoodName != nil {
		fields["foodName"] = *p.FoodName
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Location != nil {
		fields["location"] = *p.Location
	}
	if p.ExpiryDate != nil {
		fields["expiryDate"] = *p.ExpiryDate
	}
	if p.PickupInstructions != nil {
		fields["pickupInstructions"] = *p.PickupInstructions
	}
	if p.ImageURL != nil {
		fields["imageUrl"] = *p.ImageURL
	}
	return fields
}

// NowISO returns the current UTC time as an ISO 8601 string with millisecond
// precision, the createdAt format used across collections.
func NowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
