package validator

// checkTags validates the tag list: names must be unique, a declared parent
// must exist, and parent chains must not form cycles.
func checkTags(r *run) error {
	tags, ok := r.doc.Root.GetSequence("tags")
	if !ok {
		return nil
	}
	tagsLoc := loc("tags")

	parents := make(map[string]string)
	for i, tag := range tags.Items() {
		tagLoc := locIndex(tagsLoc, i)
		if !tag.IsMapping() {
			return violation(tagLoc, "tag must be an object")
		}
		name, ok := tag.GetString("name")
		if !ok || name == "" {
			return violation(tagLoc, "tag name is required")
		}
		if _, dup := parents[name]; dup {
			return violation(tagLoc, "duplicate tag name %q", name)
		}
		parent, _ := tag.GetString("parent")
		parents[name] = parent
	}

	for i, tag := range tags.Items() {
		name, _ := tag.GetString("name")
		parent := parents[name]
		if parent == "" {
			continue
		}
		tagLoc := locIndex(tagsLoc, i)
		if _, exists := parents[parent]; !exists {
			return violation(tagLoc, "tag %q declares unknown parent %q", name, parent)
		}

		// Walk the parent chain; revisiting any tag means a cycle.
		visited := map[string]bool{name: true}
		for current := parent; current != ""; current = parents[current] {
			if visited[current] {
				return violation(tagLoc, "tag %q is part of a parent cycle", name)
			}
			visited[current] = true
		}
	}
	return nil
}
