// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindSentinels(t *testing.T) {
	err := ValueRangef("probability %d is negative", 3)
	if !errors.Is(err, ErrValueRange) {
		t.Fatalf("expected value range sentinel match")
	}
	if errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("value range must not match shape mismatch")
	}

	sh := ShapeMismatchf("want %v", []int{2})
	if !errors.Is(sh, ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch sentinel match")
	}
	if sh.ErrLv != Warn {
		t.Fatalf("validation errors are warn level, got %s", ErrLv(sh.ErrLv))
	}

	// 無 Kind 的錯誤不得等於任何哨兵
	if errors.Is(NewWarn("plain"), ErrValueRange) {
		t.Fatalf("plain error matched sentinel")
	}
}

func TestWrapKeepsLevelAndKind(t *testing.T) {
	base := ShapeMismatchf("bad shape")
	w := Wrap(base, "check failed")
	if w.ErrLv != Warn || w.Kind != KindShapeMismatch {
		t.Fatalf("wrap lost level/kind: %v %v", w.ErrLv, w.Kind)
	}
	if !errors.Is(w, ErrShapeMismatch) {
		t.Fatalf("wrapped error should still match sentinel")
	}

	std := Wrap(fmt.Errorf("io"), "load")
	if std.ErrLv != Fatal || std.Kind != KindNone {
		t.Fatalf("foreign cause should be fatal without kind")
	}

	ex := WrapWithExtra(base, "ctx", "k=3")
	if !strings.Contains(ex.Error(), "extra: k=3") || !strings.Contains(ex.Error(), "[shape mismatch]") {
		t.Fatalf("unexpected message %q", ex.Error())
	}
	if e, ok := AsErr(ex); !ok || e != ex {
		t.Fatalf("AsErr failed")
	}
}
