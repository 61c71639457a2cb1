package sentiment

// GaugeAnchor is a fixed reference point on the satisfaction gauge.
type GaugeAnchor struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Gauge is an embeddable gauge description. Front ends render it directly;
// nothing here touches an image library.
type Gauge struct {
	Category string        `json:"category"`
	Value    float64       `json:"value"`
	Color    string        `json:"color"`
	Min      float64       `json:"min"`
	Max      float64       `json:"max"`
	Anchors  []GaugeAnchor `json:"anchors"`
}

var gaugeAnchors = []GaugeAnchor{
	{Label: CategoryVeryBad, Value: 1, Color: "#ef4444"},
	{Label: CategoryBad, Value: 3, Color: "#f59e42"},
	{Label: CategoryNeutral, Value: 5, Color: "#fbbf24"},
	{Label: CategoryGood, Value: 7, Color: "#a3e635"},
	{Label: CategoryVeryGood, Value: 9, Color: "#22c55e"},
}

func gaugeFor(category string, score float64) Gauge {
	color := gaugeAnchors[2].Color
	for _, anchor := range gaugeAnchors {
		if anchor.Label == category {
			color = anchor.Color
			break
		}
	}
	anchors := make([]GaugeAnchor, len(gaugeAnchors))
	copy(anchors, gaugeAnchors)
	return Gauge{
		Category: category,
		Value:    score,
		Color:    color,
		Min:      0,
		Max:      10,
		Anchors:  anchors,
	}
}
