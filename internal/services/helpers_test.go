package services

func drain(t *Turn) []string {
	var got []string
	for frag := range t.Fragments {
		got = append(got, frag)
	}
	return got
}
