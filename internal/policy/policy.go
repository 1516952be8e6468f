// Package policy maps operations to the user types allowed to perform them.
package policy

import (
	"github.com/patientng/patient-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Capability string

const (
	// Authenticated only requires an active account.
	Authenticated     Capability = "authenticated"
	ManageUsers       Capability = "manage-users"
	ModerateContent   Capability = "moderate-content"
	WriteBlog         Capability = "write-blog"
	WritePodcast      Capability = "write-podcast"
	WriteWebinar      Capability = "write-webinar"
	WriteCrowdFunding Capability = "write-crowdfunding"
	WriteAdvocacy     Capability = "write-advocacy"
)

type rule struct {
	adminOK bool
	types   []models.UserType
}

var rules = map[Capability]rule{
	Authenticated:     {adminOK: true},
	ManageUsers:       {adminOK: true},
	ModerateContent:   {adminOK: true},
	WriteBlog:         {adminOK: true, types: []models.UserType{models.TypeBlogger}},
	WritePodcast:      {adminOK: true, types: []models.UserType{models.TypePodcast}},
	WriteWebinar:      {adminOK: true, types: []models.UserType{models.TypeWebinar}},
	WriteCrowdFunding: {adminOK: true, types: []models.UserType{models.TypeCrowdFunding}},
	// Advocates file tickets on behalf of patients; admins only moderate them.
	WriteAdvocacy: {types: []models.UserType{models.TypeAdvocacy}},
}

// IsAdmin treats the isAdmin flag and the admin tag the same way.
func IsAdmin(u *models.User) bool {
	return u.IsAdmin || u.HasType(models.TypeAdmin)
}

// Allowed reports whether u may exercise c. Inactive users may do nothing.
func Allowed(c Capability, u *models.User) bool {
	if u == nil || !u.Active {
		return false
	}
	r, ok := rules[c]
	if !ok {
		return false
	}
	if c == Authenticated {
		return true
	}
	if r.adminOK && IsAdmin(u) {
		return true
	}
	for _, t := range r.types {
		if u.HasType(t) {
			return true
		}
	}
	return false
}

// CanViewUnpublished reports whether u may read content owned by owner that
// has not been approved yet: its author and moderators.
func CanViewUnpublished(u *models.User, owner primitive.ObjectID) bool {
	if u == nil || !u.Active {
		return false
	}
	return u.ID == owner || Allowed(ModerateContent, u)
}

// CanModify reports whether u may change a document owned by owner.
func CanModify(u *models.User, owner primitive.ObjectID) bool {
	return u != nil && (u.ID == owner || IsAdmin(u))
}
