package progress

// band covers the weeks up to and including upTo.
type band struct {
	upTo  int
	items []string
}

// bands partition every week into exactly one entry; the last one catches
// everything above 36.
var bands = []band{
	{upTo: 12, items: []string{
		"Start taking a prenatal vitamin with folic acid",
		"Schedule your first prenatal appointment",
		"Avoid alcohol, smoking and undercooked food",
		"Rest whenever you feel tired",
	}},
	{upTo: 20, items: []string{
		"Book your anatomy scan",
		"Try gentle exercise like walking or swimming",
		"Start thinking about baby names",
		"Eat iron-rich foods and stay hydrated",
	}},
	{upTo: 28, items: []string{
		"Take the glucose screening test",
		"Sign up for childbirth classes",
		"Plan your parental leave",
		"Sleep on your side with a supportive pillow",
	}},
	{upTo: 36, items: []string{
		"Pack your hospital bag",
		"Write a birth plan",
		"Choose a pediatrician",
		"Prepare the nursery",
	}},
	{upTo: maxInt, items: []string{
		"Finalize hospital bag",
		"Install car seat",
		"Stock up on newborn essentials",
		"Rest as much as possible",
	}},
}

const maxInt = int(^uint(0) >> 1)

// Recommendations returns the four suggestions for the band containing week.
// Every int maps to exactly one band. The result is a fresh slice.
func Recommendations(week int) []string {
	for _, b := range bands {
		if week <= b.upTo {
			return append([]string(nil), b.items...)
		}
	}
	// Unreachable: the last band's bound is the largest int.
	return nil
}

// Band returns the index of the band containing week.
func Band(week int) int {
	for i, b := range bands {
		if week <= b.upTo {
			return i
		}
	}
	return len(bands) - 1
}
