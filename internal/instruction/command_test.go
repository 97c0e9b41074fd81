package instruction

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Instruction
	}{
		{
			name: "set staff cost",
			text: "Set Staff 3 cost to 90",
			want: UpdateStaffField{StaffName: "Staff 3", Field: "Staff Cost", Value: decimal.NewFromInt(90)},
		},
		{
			name: "set staff min days lowercase",
			text: "  set staff 12 min days to 2",
			want: UpdateStaffField{StaffName: "Staff 12", Field: "Min Working Days per Week", Value: decimal.NewFromInt(2)},
		},
		{
			name: "unknown field passes through",
			text: "set staff 1 salary to 5",
			want: UpdateStaffField{StaffName: "Staff 1", Field: "salary", Value: decimal.NewFromInt(5)},
		},
		{
			name: "reduce",
			text: "Reduce Friday staff requirement by 1",
			want: AdjustDemandDelta{Day: "Fri", Delta: -1},
		},
		{
			name: "raise",
			text: "raise SATURDAY staff requirement by 2",
			want: AdjustDemandDelta{Day: "Sat", Delta: 2},
		},
		{
			name: "decrease by negative",
			text: "decrease mon staff requirement by -2",
			want: AdjustDemandDelta{Day: "Mon", Delta: 2},
		},
		{
			name: "set demand",
			text: "Set Friday staff requirement to 2",
			want: SetDemand{Day: "Fri", Value: 2},
		},
		{
			name: "trailing text ignored",
			text: "set sunday staff requirement to 4 please",
			want: SetDemand{Day: "Sun", Value: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCommand(tt.text)
			if !ok {
				t.Fatalf("ParseCommand(%q) did not match", tt.text)
			}
			assertInstruction(t, got, tt.want)
		})
	}
}

func TestParseCommand_NoMatch(t *testing.T) {
	for _, text := range []string{
		"Who works on Friday?",
		"please set staff 2 cost to 110",
		"set staff cost to 110",
		"set fr staff requirement to 2",
		"increase friday staff requirement by lots",
		"increase monday staff requirement by 9223372036854775807",
		"set friday staff requirement to 2147483648",
		"set staff 2 cost to 99999999999999999999",
		"",
	} {
		if got, ok := ParseCommand(text); ok {
			t.Errorf("ParseCommand(%q) = %#v, want no match", text, got)
		}
	}
}

// assertInstruction compares instructions, treating decimal values by numeric equality
func assertInstruction(t *testing.T, got, want Instruction) {
	t.Helper()
	switch w := want.(type) {
	case UpdateStaffField:
		g, ok := got.(UpdateStaffField)
		if !ok {
			t.Fatalf("got %T, want UpdateStaffField", got)
		}
		if g.StaffName != w.StaffName || g.Field != w.Field || !g.Value.Equal(w.Value) {
			t.Errorf("got %+v, want %+v", g, w)
		}
	default:
		if got != want {
			t.Errorf("got %#v, want %#v", got, want)
		}
	}
}
