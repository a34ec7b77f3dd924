package parser

import "testing"

func TestNormalizeKey_SeparatorAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	want := NormalizeKey("Start Date")
	for _, in := range []string{"start_date", "STARTDATE", "  Start-Date ", "\ufeffStart  Date", "start - _ date"} {
		if got := NormalizeKey(in); got != want {
			t.Fatalf("NormalizeKey(%q)=%q want=%q", in, got, want)
		}
	}
	if want != "startdate" {
		t.Fatalf("unexpected key: %q", want)
	}
}

func TestNormalizeKey_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"CD1 Ext End Date", "Project_Code", "Deployement", "ÄRCH-itecture"} {
		once := NormalizeKey(in)
		if twice := NormalizeKey(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestIsNoData(t *testing.T) {
	t.Parallel()

	for _, v := range []any{nil, "", "  ", "No Data", "NODATA", "n/a", "NA", "-", "—", "/", "null", "NaN", "undefined"} {
		if !IsNoData(v) {
			t.Fatalf("expected no data for %#v", v)
		}
	}
	for _, v := range []any{"0", 0.0, "Alice", "not in scope"} {
		if IsNoData(v) {
			t.Fatalf("unexpected no data for %#v", v)
		}
	}
}

func TestIsOutOfScope(t *testing.T) {
	t.Parallel()

	if !IsOutOfScope("Not in Scope") || !IsOutOfScope("NotInScope") {
		t.Fatalf("expected out of scope")
	}
	if IsOutOfScope("Team A") {
		t.Fatalf("unexpected out of scope")
	}
}

func TestHeaderIndex_LookupAndLastWins(t *testing.T) {
	t.Parallel()

	idx := NewHeaderIndex([]string{"Project Code", "AH", "project_code"})
	h, ok := idx.Lookup("PROJECTCODE")
	if !ok || h != "project_code" {
		t.Fatalf("lookup: got=%q ok=%v", h, ok)
	}
	if _, ok := idx.Lookup("BH"); ok {
		t.Fatalf("expected BH missing")
	}
	col, ok := idx.Resolve([]string{"TCH", "ah", "Allotted"})
	if !ok || col != 1 {
		t.Fatalf("resolve: col=%d ok=%v", col, ok)
	}
}
