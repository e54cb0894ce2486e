package extract

// Question is one exam question identified by its section-letter ID, for
// example "А12" or "В3".
type Question struct {
	ID   string
	Text string
}

// Section is an ordered group of questions sharing one section letter,
// preceded by shared general instructions.
type Section struct {
	Letter      string
	GeneralInfo string
	Questions   []Question

	index map[string]int
}

// Question returns the question with the given ID, if present.
func (s *Section) Question(id string) (*Question, bool) {
	if s.index == nil {
		s.index = make(map[string]int, len(s.Questions))
		for i, q := range s.Questions {
			s.index[q.ID] = i
		}
	}
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.Questions[i], true
}

// Append adds a question and keeps the ID index current.
func (s *Section) Append(q Question) {
	if s.index == nil {
		s.index = make(map[string]int, 8)
	}
	s.index[q.ID] = len(s.Questions)
	s.Questions = append(s.Questions, q)
}

// AnswerRecord holds the correct answer and explanatory comment for one
// question, as printed in the consultation PDF.
type AnswerRecord struct {
	Answer  string
	Comment string
}

// ImageRecord describes one extracted illustration and its association
// with a question.
type ImageRecord struct {
	Filename   string
	Page       int
	Format     string
	Size       int
	DataURI    string
	NearbyText string
	QuestionID string
}
