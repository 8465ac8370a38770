// Package blackboard extracts structured records out of the portal's HTML.
// The portal ships two UI generations (legacy and Ultra) with several
// layout variants each; every extractor here targets one layout shape,
// runs best-effort, and returns whatever it could recognize. Nothing in
// this package touches persistence.
package blackboard

// Color is the kanban category a task is filed under. The portal encodes
// it as a course-color-N css class.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorTeal   Color = "teal"
	ColorGray   Color = "gray"
)

// colorMap translates the portal's course-color-N class tokens. Unmapped
// tokens fall back to a per-extractor default.
var colorMap = map[string]Color{
	"course-color-1": ColorBlue,
	"course-color-2": ColorPurple,
	"course-color-3": ColorPink,
	"course-color-4": ColorRed,
	"course-color-5": ColorOrange,
	"course-color-6": ColorYellow,
	"course-color-7": ColorGreen,
	"course-color-8": ColorTeal,
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "inprogress"
	TaskDone       TaskStatus = "done"
)

// Task is a calendar/agenda entry. Dates stay free-form strings; the
// portal renders them in locale-specific formats that are displayed, not
// computed with.
type Task struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Course      string     `json:"course"`
	Color       Color      `json:"color"`
	Status      TaskStatus `json:"status"`
	Description string     `json:"description"`
}

// Grade is a course-level summary from the global grades page. The raw
// grade string is kept as-is ("9.5/10", "95%", "9.5").
type Grade struct {
	Course     string `json:"course"`
	Grade      string `json:"grade"`
	Url        string `json:"url"`
	InternalId string `json:"internalId,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

type AssignmentStatus string

const (
	AssignmentGraded  AssignmentStatus = "graded"
	AssignmentPending AssignmentStatus = "pending"
)

// Assignment is a coarse per-course gradebook row. Identity is
// (title, course).
type Assignment struct {
	Title   string           `json:"title"`
	Course  string           `json:"course"`
	Grade   string           `json:"grade"`
	DueDate string           `json:"dueDate"`
	Status  AssignmentStatus `json:"status"`
	Url     string           `json:"url"`
}

const (
	// UnknownCourse marks assignment batches whose course could not be
	// resolved from any page context.
	UnknownCourse = "Unknown Course"
	// NoProfessor is the placeholder when a course card carries no
	// instructor information.
	NoProfessor = "Sin profesor asignado"
	// NoDate is the placeholder for undeterminable dates.
	NoDate = "Sin fecha"
)

type Course struct {
	Name string `json:"name"`
	// Id is the human-readable course code, e.g. INGE2024A-GRP1.
	Id string `json:"id,omitempty"`
	// InternalId is the portal-internal id, e.g. _12345_1.
	InternalId string `json:"internalId,omitempty"`
	Professor  string `json:"professor"`
	Url        string `json:"url"`
	Timestamp  int64  `json:"timestamp"`
}

// Key is the identity used for upserts: internal id when present, then
// course code, then name.
func (c Course) Key() string {
	if c.InternalId != "" {
		return c.InternalId
	}
	if c.Id != "" {
		return c.Id
	}
	return c.Name
}

type RowStatus string

const (
	RowPending   RowStatus = "pending"
	RowSubmitted RowStatus = "submitted"
	RowGraded    RowStatus = "graded"
)

// UngradedGrade is the sentinel used when a detail row has no grade yet.
const UngradedGrade = "-"

// DetailRow is one activity row of the legacy per-course gradebook.
type DetailRow struct {
	Title          string    `json:"title"`
	DueDate        string    `json:"dueDate"`
	SubmittedDate  string    `json:"submittedDate"`
	Status         RowStatus `json:"status"`
	Grade          string    `json:"grade"`
	PointsPossible string    `json:"pointsPossible"`
	// Feedback is sanitized HTML recovered from the row's lightbox
	// callback.
	Feedback string `json:"feedback"`
	// Weight is the percentage string from the criteria control, or ""
	// when no weight entry matched this row.
	Weight string `json:"weight,omitempty"`
}

// CourseDetail is the deep snapshot of one course's gradebook, replaced
// wholesale on every successful detail extraction.
type CourseDetail struct {
	Title   string            `json:"title"`
	Grades  []DetailRow       `json:"grades"`
	Weights map[string]string `json:"weights"`
}

// InstructionSection is one label/field pair of an assignment's
// instructions form.
type InstructionSection struct {
	Title string `json:"title"`
	Html  string `json:"html"`
	Text  string `json:"text"`
}
