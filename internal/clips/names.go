package clips

// Names are the deterministic clip names for one toe layer variant.
type Names struct {
	Bent    string
	Neutral string
	Tip     string
}

// NamesFor derives clip names from the controller, layer and variant.
func NamesFor(controller, layer string, splayed bool) Names {
	if splayed {
		return Names{
			Bent:    controller + "Splayed" + layer + "Bent",
			Neutral: controller + "Splayed" + layer + "Neutral",
			Tip:     controller + "SplayedTip" + layer,
		}
	}
	return Names{
		Bent:    controller + layer + "Bent",
		Neutral: controller + layer + "Neutral",
		Tip:     controller + "TipToes" + layer,
	}
}

// All lists the names in blend order: bent, neutral, tip.
func (n Names) All() []string {
	return []string{n.Bent, n.Neutral, n.Tip}
}
