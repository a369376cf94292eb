package resource

// Category is the first path segment below the mount root. The set is closed.
type Category int

const (
	Resources Category = iota + 1
	JavaScript
	Libs
)

var categoryNames = map[Category]string{
	Resources:  "resources",
	JavaScript: "javascript",
	Libs:       "libs",
}

// ParseCategory returns the category for a path segment.
func ParseCategory(segment string) (Category, bool) {
	for c, name := range categoryNames {
		if name == segment {
			return c, true
		}
	}
	return 0, false
}

// Categories returns all known categories.
func Categories() []Category {
	return []Category{Resources, JavaScript, Libs}
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Key returns the store key of name within the category.
func (c Category) Key(name string) string {
	return c.String() + "/" + name
}
