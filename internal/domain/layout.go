package domain

// StarterLayout lists the files a new project of the given type starts with
func StarterLayout(typ ProjectType) []string {
	switch typ {
	case ProjectBook:
		return []string{"Volume 1/Chapter 1.md"}
	case ProjectScript:
		return []string{"Act 1/Scene 1.md"}
	case ProjectFilm:
		return []string{"Sequence 1/Scene 1.md"}
	case ProjectEssay:
		return []string{"Manuscript.md"}
	default:
		return nil
	}
}
