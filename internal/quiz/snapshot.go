package quiz

// QuestionView is a question as shown to the player. CorrectIndex is only
// set once the quiz is completed.
type QuestionView struct {
	Question     string   `json:"question"`
	Answers      []string `json:"answers"`
	CorrectIndex *int     `json:"correctIndex,omitempty"`
}

// Snapshot is a read-only view of a Session for rendering.
type Snapshot struct {
	State        State          `json:"state"`
	Questions    []QuestionView `json:"questions"`
	Answers      []int          `json:"answers"`
	CurrentIndex int            `json:"currentIndex"`
	Total        int            `json:"total"`
	Answered     int            `json:"answered"`
	Complete     bool           `json:"complete"`
	Generating   bool           `json:"generating"`
}

// Snapshot captures the session in one consistent read.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:        s.state,
		Questions:    make([]QuestionView, len(s.questions)),
		Answers:      append([]int{}, s.answers...),
		CurrentIndex: s.current,
		Total:        len(s.questions),
		Complete:     s.completeLocked(),
		Generating:   s.generating,
	}
	for i, q := range s.questions {
		view := QuestionView{
			Question: q.Text,
			Answers:  append([]string(nil), q.Options...),
		}
		if s.state == StateCompleted {
			correct := q.CorrectIndex
			view.CorrectIndex = &correct
		}
		snap.Questions[i] = view
	}
	for _, a := range s.answers {
		if a != Unanswered {
			snap.Answered++
		}
	}
	return snap
}
