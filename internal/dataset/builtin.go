package dataset

import "github.com/mikey/nb-spam-filter/internal/core"

// BuiltinSource names the demonstration dataset in a core.Dataset.
const BuiltinSource = "builtin"

// Builtin returns the five row demonstration dataset used when no dataset
// file can be found.
func Builtin() *core.Dataset {
	return &core.Dataset{
		Records: []core.Record{
			{Label: core.Ham, Text: "Go until jurong point, crazy.. Available only in bugis n great world la e buffet... Cine there got amore wat?"},
			{Label: core.Spam, Text: "URGENT! You have won a 1 week FREE membership in our $100000 Prize. TEXT FA to 80877 to claim now!"},
			{Label: core.Ham, Text: "Nah I don't think he goes to usf, he lives around here though"},
			{Label: core.Spam, Text: "Had your mobile 11 months or more? U R entitled to Update to the latest Nokia for FREE! Call now on 0800800000 to get on the list."},
			{Label: core.Ham, Text: "I'm gonna be home soon and i don't want to talk about this stuff anymore tonight, k? I've cried enough today."},
		},
		Source:  BuiltinSource,
		Builtin: true,
	}
}
