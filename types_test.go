package humble

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2021-04-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2021 || d.Month != time.April || d.Day != 9 {
		t.Errorf("unexpected date %+v", d)
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, s := range []string{"", "2021-13-01", "not a date", "2021-04-09T00:00:00Z"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestDateString(t *testing.T) {
	d := Date{Year: 2021, Month: time.April, Day: 9}
	if got := d.String(); got != "2021-04-09" {
		t.Errorf("expected 2021-04-09, got %s", got)
	}
}

func TestDateOf(t *testing.T) {
	d := DateOf(time.Date(1999, time.December, 31, 23, 59, 0, 0, time.UTC))
	want := Date{Year: 1999, Month: time.December, Day: 31}
	if d != want {
		t.Errorf("expected %v, got %v", want, d)
	}
}

func TestDateBefore(t *testing.T) {
	a := Date{Year: 2020, Month: time.January, Day: 1}
	b := Date{Year: 2020, Month: time.January, Day: 2}
	if !a.Before(b) {
		t.Error("expected a before b")
	}
	if b.Before(a) {
		t.Error("did not expect b before a")
	}
}

func TestDateJSON(t *testing.T) {
	d := Date{Year: 2021, Month: time.April, Day: 9}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2021-04-09"` {
		t.Errorf("unexpected JSON %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip mismatch: %v != %v", back, d)
	}
}

func TestDateUnmarshalInvalid(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`123`), &d); err == nil {
		t.Error("expected error for non-string JSON")
	}
	if err := json.Unmarshal([]byte(`"04/09/2021"`), &d); err == nil {
		t.Error("expected error for wrong layout")
	}
}
