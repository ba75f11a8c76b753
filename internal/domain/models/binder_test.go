package models

import "testing"

func TestBinderCapacity(t *testing.T) {
	tests := []struct {
		columns  int
		wantRows int
		wantCap  int
	}{
		{2, 2, 4},
		{3, 3, 9},
		{4, 3, 12},
	}

	for _, tt := range tests {
		if rows := BinderRows(tt.columns); rows != tt.wantRows {
			t.Errorf("BinderRows(%d) = %d, want %d", tt.columns, rows, tt.wantRows)
		}
		if capacity := BinderCapacity(tt.columns); capacity != tt.wantCap {
			t.Errorf("BinderCapacity(%d) = %d, want %d", tt.columns, capacity, tt.wantCap)
		}
	}
}

func TestSlotsRemainingInRow(t *testing.T) {
	tests := []struct {
		position int
		columns  int
		want     int
	}{
		{1, 3, 3},
		{2, 3, 2},
		{3, 3, 1},
		{4, 3, 3},
		{9, 3, 1},
		{10, 3, 3},
		{1, 2, 2},
		{2, 2, 1},
		{3, 2, 2},
		{5, 4, 4},
	}

	for _, tt := range tests {
		if got := SlotsRemainingInRow(tt.position, tt.columns); got != tt.want {
			t.Errorf("SlotsRemainingInRow(%d, %d) = %d, want %d", tt.position, tt.columns, got, tt.want)
		}
	}
}

func TestFillRowRun(t *testing.T) {
	tests := []struct {
		name         string
		position     int
		quantity     int
		columns      int
		wantFilled   int
		wantOverflow int
	}{
		{"fits in row", 1, 2, 3, 2, 0},
		{"exact row", 1, 3, 3, 3, 0},
		{"overflows row", 1, 5, 3, 3, 2},
		{"mid row start", 2, 3, 3, 2, 1},
		{"last slot of row", 3, 4, 3, 1, 3},
		{"single copy", 7, 1, 3, 1, 0},
		{"two column row", 1, 3, 2, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filled, overflow := FillRowRun(tt.position, tt.quantity, tt.columns)
			if filled != tt.wantFilled || overflow != tt.wantOverflow {
				t.Errorf("FillRowRun(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.position, tt.quantity, tt.columns, filled, overflow, tt.wantFilled, tt.wantOverflow)
			}
		})
	}
}

func TestMergeKeySameVariant(t *testing.T) {
	finish := int64(1)
	otherFinish := int64(2)

	base := MergeKey{SetCode: "LEA", CardNumber: "161", ContainerID: 1, LanguageID: 1}

	tests := []struct {
		name string
		a, b MergeKey
		want bool
	}{
		{"identical standard", base, base, true},
		{
			"identical foil",
			MergeKey{SetCode: "LEA", CardNumber: "161", ContainerID: 1, FinishID: &finish, LanguageID: 1},
			MergeKey{SetCode: "LEA", CardNumber: "161", ContainerID: 1, FinishID: &finish, LanguageID: 1},
			true,
		},
		{
			"standard vs foil",
			base,
			MergeKey{SetCode: "LEA", CardNumber: "161", ContainerID: 1, FinishID: &finish, LanguageID: 1},
			false,
		},
		{
			"different finishes",
			MergeKey{SetCode: "LEA", CardNumber: "161", ContainerID: 1, FinishID: &finish, LanguageID: 1},
			MergeKey{SetCode: "LEA", CardNumber: "161", ContainerID: 1, FinishID: &otherFinish, LanguageID: 1},
			false,
		},
		{
			"different container",
			base,
			MergeKey{SetCode: "LEA", CardNumber: "161", ContainerID: 2, LanguageID: 1},
			false,
		},
		{
			"different language",
			base,
			MergeKey{SetCode: "LEA", CardNumber: "161", ContainerID: 1, LanguageID: 2},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.SameVariant(tt.b); got != tt.want {
				t.Errorf("SameVariant() = %v, want %v", got, tt.want)
			}
		})
	}
}
