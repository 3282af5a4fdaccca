package metadata

// UseColor reports whether charts should split samples by colorColumn: only
// when the column takes more than one distinct value.
func UseColor(t *Table, colorColumn string) (bool, error) {
	values, err := t.Distinct(colorColumn)
	if err != nil {
		return false, err
	}

	return len(values) > 1, nil
}
