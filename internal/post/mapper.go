package post

// Mapping between wire shapes and the persisted entity. These are pure
// transformations; inputs are assumed to have passed validation already.

// NewPost builds an unsaved entity from a create request. ID, CreatedAt and
// OwnerID are left for the caller and the store to assign.
func NewPost(req CreateRequest) *Post {
	return &Post{
		Title: req.Title,
		Body:  req.Body,
	}
}

// ApplyUpdate copies the mutable fields of an update request onto an existing
// entity. ID, OwnerID and CreatedAt are untouched.
func ApplyUpdate(req UpdateRequest, p *Post) {
	p.Title = req.Title
	p.Body = req.Body
}

// ToResponse projects an entity into its wire shape. The owner summary is
// included only when the owner row was loaded alongside the post.
func ToResponse(p *Post) Response {
	resp := Response{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
	}
	if p.Owner != nil {
		resp.Owner = &OwnerSummary{ID: p.Owner.ID, Username: p.Owner.Username}
	}
	return resp
}

func ToResponses(posts []Post) []Response {
	out := make([]Response, 0, len(posts))
	for i := range posts {
		out = append(out, ToResponse(&posts[i]))
	}
	return out
}
