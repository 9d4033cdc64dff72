package categorizer

// Strategy is one categorization method in a Chain.
type Strategy interface {
	// Match returns the category for a folded description, or false when
	// this strategy has no opinion.
	Match(folded string) (string, bool)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
