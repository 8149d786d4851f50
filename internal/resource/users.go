package resource

import "context"

// User statuses.
const (
	UserActive    = "active"
	UserSuspended = "suspended"
)

// User is a client account.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (u User) EntityID() string { return u.ID }

// FullName joins the user's names.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserInput is the writable subset of a user.
type UserInput struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Users is the users module.
type Users struct {
	*Module[User]
}

// NewUsers creates the users module.
func NewUsers(d Deps) *Users {
	return &Users{newModule[User]("users", "/v1/users", d)}
}

// Create creates a user.
func (u *Users) Create(ctx context.Context, in UserInput) (User, error) {
	return u.create(ctx, in)
}

// Update patches a user.
func (u *Users) Update(ctx context.Context, id string, in UserInput) (User, error) {
	return u.update(ctx, id, in)
}

// Delete deletes a user.
func (u *Users) Delete(ctx context.Context, id string) error {
	return u.remove(ctx, id)
}

// SetStatus moves a user to status.
func (u *Users) SetStatus(ctx context.Context, id, status string) (User, error) {
	return u.setStatus(ctx, id, status)
}
