package features

// MatchupFeatureVector is the exact model input for one fixture: values
// ordered to match the feature list recorded with the model at training
// time. Defaulted lists any expected feature the composed set lacked;
// those positions hold 0 and should be surfaced as a schema warning.
type MatchupFeatureVector struct {
	MatchID   string
	Names     []string
	Values    []float64
	Defaulted []string
}

// ComposeMatchup builds the full diff/sum feature map for one fixture
// from the two teams' profiles. Diffs are home-relative.
func ComposeMatchup(home, away *RollingProfile) map[string]float64 {
	feats := make(map[string]float64, 2*len(home.Values)+1)
	for name, hv := range home.Values {
		av := away.Values[name]
		feats[DiffName(name)] = hv - av
		feats[SumName(name)] = hv + av
	}
	feats[FeatureIsHome] = 1
	return feats
}

// BuildVector projects a feature map onto the ordered name list a model
// expects. Expected names missing from the map are filled with 0 rather
// than dropped; omission would shift every later column and poison the
// score, a zero only degrades it.
func BuildVector(matchID string, feats map[string]float64, expected []string) *MatchupFeatureVector {
	vec := &MatchupFeatureVector{
		MatchID: matchID,
		Names:   expected,
		Values:  make([]float64, len(expected)),
	}
	for i, name := range expected {
		v, ok := feats[name]
		if !ok {
			vec.Defaulted = append(vec.Defaulted, name)
			continue
		}
		vec.Values[i] = v
	}
	return vec
}
