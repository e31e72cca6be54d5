package catalog

// Collection is an opaque collection document from the commerce platform.
type Collection map[string]any

func (c Collection) ID() string {
	if id := String(c["id"]); id != "" {
		return id
	}
	return String(c["_id"])
}

func (c Collection) Slug() string { return String(c["slug"]) }

func (c Collection) Name() string { return String(c["name"]) }
