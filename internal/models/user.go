package models

// UserProfile is a registered identity's profile document, keyed by the
// identity's stable uid. IsAdmin is set only at creation time and is the
// sole authorization signal for privileged operations.
type UserProfile struct {
	ID         string `json:"id" bson:"_id"`
	UID        string `json:"uid" bson:"uid"`
	Name       string `json:"name" bson:"name"`
	Email      string `json:"email" bson:"email"`
	Phone      string `json:"phone" bson:"phone"`
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Bio        string `json:"bio" bson:"bio"`
	Avatar     string `json:"avatar" bson:"avatar"`
	IsAdmin    bool   `json:"isAdmin,omitempty" bson:"isAdmin,omitempty"`
	CreatedAt  string `json:"createdAt" bson:"createdAt"`
}

// PublicUserInfo is the subset of a profile exposed to other users so they
// can contact a donor.
type PublicUserInfo struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
}

// CreateUserRequest is the body of an authenticated profile creation.
// IsAdmin is honored here and nowhere else; there is no elevation path.
type CreateUserRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Bio        string `json:"bio"`
	Avatar     string `json:"avatar"`
	IsAdmin    bool   `json:"isAdmin"`
}

func (r *CreateUserRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}

	return errors
}

// UserPatch is a partial update over the mutable profile fields. IsAdmin is
// deliberately absent.
type UserPatch struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	Bio        *string `json:"bio"`
	Avatar     *string `json:"avatar"`
}

// Fields returns the set fields as a name -> value map for the store.
func (p *UserPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.Phone != nil {
		fields["phone"] = *p.Phone
	}
	if p.Address != nil {
		fields["address"] = *p.Address
	}
	if p.City != nil {
		fields["city"] = *p.City
	}
	if p.State != nil {
		fields["state"] = *p.State
	}
	if p.PostalCode != nil {
		fields["postalCode"] = *p.PostalCode
	}
	if p.Bio != nil {
		fields["bio"] = *p.Bio
	}
	if p.Avatar != nil {
		fields["avatar"] = *p.Avatar
	}
	return fields
}

// UpdateUserRequest is the PATCH /users body: a target id plus the fields to
// overwrite.
type UpdateUserRequest struct {
	ID string `json:"id"`
	UserPatch
}
