package graph

import "time"

// EdgeKind names a relationship class in the graph store. Every node
// carries a uniform `id` property: for User nodes the id is the username,
// for everything else it is the canonical-store uuid string.
type EdgeKind string

const (
	// EdgeEnrolled links a student to a course. At most one per pair.
	EdgeEnrolled EdgeKind = "ENROLLED_IN"
	// EdgeFriends links two users.
	EdgeFriends EdgeKind = "FRIENDS_WITH"
	// EdgeAuthored links a user to a consulta they wrote. Ownership for
	// deletion is decided solely by this edge.
	EdgeAuthored EdgeKind = "AUTHORED"
	// EdgeHasAnswer links a consulta to one of its respuestas.
	EdgeHasAnswer EdgeKind = "HAS_ANSWER"
	// EdgeAbout links a consulta to the course it discusses.
	EdgeAbout EdgeKind = "ABOUT"
)

type edgeSpec struct {
	fromLabel string
	toLabel   string
}

var edgeSpecs = map[EdgeKind]edgeSpec{
	EdgeEnrolled:  {fromLabel: "User", toLabel: "Course"},
	EdgeFriends:   {fromLabel: "User", toLabel: "User"},
	EdgeAuthored:  {fromLabel: "User", toLabel: "Consulta"},
	EdgeHasAnswer: {fromLabel: "Consulta", toLabel: "Respuesta"},
	EdgeAbout:     {fromLabel: "Consulta", toLabel: "Course"},
}

// Consulta is a question node authored by a user about a course.
type Consulta struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Respuesta is an answer node hanging off a consulta.
type Respuesta struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
