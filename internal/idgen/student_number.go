package idgen

const studentNumberPrefix = "S-"

// StudentNumber turns a fresh id into a short, sortable student number such as "S-3hK9xQ2a1".
func (g *Generator) StudentNumber() (string, error) {
	id, err := g.NextID()
	if err != nil {
		return "", err
	}
	return studentNumberPrefix + Encode(id), nil
}
