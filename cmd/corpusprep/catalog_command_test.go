package main

import (
	"strings"
	"testing"
)

func TestCatalogListsGroups(t *testing.T) {
	out, _, err := runCLI(t, []string{"catalog"}, "")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	requireContains(t, out, "ALL")
	requireContains(t, out, "FINANCE")
	requireContains(t, out, "21")
}

func TestCatalogExpandsFinance(t *testing.T) {
	out, _, err := runCLI(t, []string{"catalog", "FINANCE"}, "")
	if err != nil {
		t.Fatalf("catalog FINANCE: %v", err)
	}
	for _, category := range []string{"5.금융-은행", "6.나이-생년월일", "7.날짜-시간", "8.단위", "18.통계-수치", "20.통화-금액"} {
		requireContains(t, out, category)
	}
	if strings.Contains(out, "1.개인고유번호") {
		t.Fatalf("FINANCE should not include 1.개인고유번호:\n%s", out)
	}
	requireContains(t, out, "TS_5.금융-은행(음성).zip")
	requireContains(t, out, "TL_5.금융-은행.zip")
}

func TestCatalogValidationArchiveNames(t *testing.T) {
	out, _, err := runCLI(t, []string{"catalog", "8.단위", "--training-set=false"}, "")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	requireContains(t, out, "VS_8.단위(음성).zip")
	requireContains(t, out, "VL_8.단위.zip")
}

func TestCatalogRejectsEmptySelector(t *testing.T) {
	if _, _, err := runCLI(t, []string{"catalog", " , "}, ""); err == nil {
		t.Fatal("expected error for empty selector")
	}
}
