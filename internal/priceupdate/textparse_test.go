package priceupdate

import (
	"reflect"
	"testing"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Line
	}{
		{
			name: "two fields is name and new price",
			text: "Молоко - 100",
			want: []Line{{Name: "Молоко", Price: 100}},
		},
		{
			name: "three fields is name, old price, new price",
			text: "Сыр - 250 - 199",
			want: []Line{{Name: "Сыр", Price: 199, OldPrice: 250}},
		},
		{
			name: "crlf multiline",
			text: "Молоко - 100\r\nСыр - 250 - 199\r\n",
			want: []Line{
				{Name: "Молоко", Price: 100},
				{Name: "Сыр", Price: 199, OldPrice: 250},
			},
		},
		{
			name: "sloppy separators",
			text: "Молоко -- 100\nСыр --- 250  -199",
			want: []Line{
				{Name: "Молоко", Price: 100},
				{Name: "Сыр", Price: 199, OldPrice: 250},
			},
		},
		{
			name: "extra padding around the separator is stripped",
			text: "Молоко   - 100\n Сыр -   250 - 199",
			want: []Line{
				{Name: "Молоко", Price: 100},
				{Name: "Сыр", Price: 199, OldPrice: 250},
			},
		},
		{
			name: "dash inside name without space is not a separator",
			text: "Т-34 - 50",
			want: []Line{{Name: "Т-34", Price: 50}},
		},
		{
			name: "chat noise is dropped",
			text: "Привет!\nМолоко - 100\nСпасибо",
			want: []Line{{Name: "Молоко", Price: 100}},
		},
		{
			name: "too many fields is dropped",
			text: "Молоко - 100 - 90 - 80",
			want: nil,
		},
		{
			name: "unparseable price is dropped",
			text: "Молоко - дорого\nСыр - 199",
			want: []Line{{Name: "Сыр", Price: 199}},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseText(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
