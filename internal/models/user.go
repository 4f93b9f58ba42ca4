// server/internal/models/user.go
package models

import "time"

// User is an account document in MongoDB.
type User struct {
	Email     string   `bson:"email" json:"email"`
	Name      string   `bson:"name" json:"name"`
	Password  string   `bson:"password" json:"-"`
	Role      string   `bson:"role" json:"role"`
	ServiceNo string   `bson:"serviceNo" json:"serviceNo"`
	Branches  []string `bson:"branches" json:"branches"`
	Status    string   `bson:"status" json:"status"`
}

// UserProfile is an employee record as returned by the ERP lookup.
// Read-only on this side; fetched on demand and cached.
type UserProfile struct {
	ServiceNo   string   `bson:"serviceNo" json:"serviceNo"`
	Name        string   `bson:"name" json:"name"`
	Section     string   `bson:"section" json:"section"`
	Group       string   `bson:"group" json:"group"`
	Designation string   `bson:"designation" json:"designation"`
	Contact     string   `bson:"contact" json:"contact"`
	Email       string   `bson:"email" json:"email"`
	Branches    []string `bson:"branches" json:"branches"`
}

// PlaceholderProfile is what enrichment degrades to when a lookup fails:
// the service number is kept, everything else renders as "N/A".
func PlaceholderProfile(serviceNo string) UserProfile {
	return UserProfile{
		ServiceNo:   serviceNo,
		Name:        "N/A",
		Section:     "N/A",
		Group:       "N/A",
		Designation: "N/A",
		Contact:     "N/A",
		Email:       "",
	}
}

type Category struct {
	Name       string    `bson:"name" json:"name"`
	Returnable bool      `bson:"returnable" json:"returnable"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
