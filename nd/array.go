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

// Package nd 提供抽樣所需的最小 N 維陣列（row-major、連續記憶體）。
//
// 陣列的第 0 軸在 Pis / Xis 中代表「類別軸」：Row(i) 回傳第 i 個類別在所有試驗上的連續切片，
// 逐類別的條件二項分解因此可以整列處理，而不是逐試驗迴圈。
//
// 形狀為 () 的陣列為純量，Size() == 1。
package nd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zintix-labs/multinom/errs"
)

// Shape 陣列形狀，各維長度必須 >= 0
type Shape []int

// Size 回傳元素總數；空形狀（純量）為 1。
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Equal 逐維比較兩個形狀
func (s Shape) Equal(o Shape) bool {
	return slices.Equal(s, o)
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}
	if len(s) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s Shape) valid() bool {
	for _, d := range s {
		if d < 0 {
			return false
		}
	}
	return true
}

// Array 是固定形狀的數值陣列
type Array[T Numbers] struct {
	shape Shape
	data  []T
}

// Zeros 建立指定形狀、全為零的陣列。形狀含負數時 panic（屬於程式錯誤）。
func Zeros[T Numbers](shape ...int) *Array[T] {
	s := Shape(slices.Clone(shape))
	if !s.valid() {
		panic("nd: negative dimension in shape " + s.String())
	}
	return &Array[T]{shape: s, data: make([]T, s.Size())}
}

// FromSlice 以既有資料建立陣列（不複製 data）。長度與形狀不符時回傳 ShapeMismatch。
func FromSlice[T Numbers](data []T, shape ...int) (*Array[T], error) {
	s := Shape(slices.Clone(shape))
	if !s.valid() {
		return nil, errs.ShapeMismatchf("nd: negative dimension in shape %s", s)
	}
	if s.Size() != len(data) {
		return nil, errs.ShapeMismatchf("nd: %d elements cannot fill shape %s", len(data), s)
	}
	return &Array[T]{shape: s, data: data}, nil
}

// MustFromSlice 與 FromSlice 相同，但失敗時 panic。供測試與常數資料使用。
func MustFromSlice[T Numbers](data []T, shape ...int) *Array[T] {
	a, err := FromSlice(data, shape...)
	if err != nil {
		panic(err)
	}
	return a
}

// Scalar 建立形狀為 () 的純量陣列
func Scalar[T Numbers](v T) *Array[T] {
	return &Array[T]{shape: Shape{}, data: []T{v}}
}

// Vector 建立形狀為 (len(v),) 的一維陣列（複製 v）
func Vector[T Numbers](v []T) *Array[T] {
	return &Array[T]{shape: Shape{len(v)}, data: slices.Clone(v)}
}

// Stack 將多個同形狀的陣列沿新的第 0 軸堆疊，結果形狀為 (len(rows),)+rows[0].Shape()。
func Stack[T Numbers](rows ...*Array[T]) (*Array[T], error) {
	if len(rows) == 0 {
		return nil, errs.ShapeMismatchf("nd: stack needs at least one array")
	}
	inner := rows[0].shape
	out := Zeros[T](append([]int{len(rows)}, inner...)...)
	for i, r := range rows {
		if !r.shape.Equal(inner) {
			return nil, errs.ShapeMismatchf("nd: stack row %d has shape %s, want %s", i, r.shape, inner)
		}
		copy(out.Row(i), r.data)
	}
	return out, nil
}

// Shape 回傳形狀的複本
func (a *Array[T]) Shape() Shape { return slices.Clone(a.shape) }

// Ndim 回傳維度數
func (a *Array[T]) Ndim() int { return len(a.shape) }

// Size 回傳元素總數
func (a *Array[T]) Size() int { return len(a.data) }

// Data 回傳底層資料（共用記憶體）
func (a *Array[T]) Data() []T { return a.data }

// Inner 回傳去掉第 0 軸之後的形狀；純量回傳 nil。
func (a *Array[T]) Inner() Shape {
	if len(a.shape) == 0 {
		return nil
	}
	return slices.Clone(a.shape[1:])
}

// Len0 回傳第 0 軸長度；純量回傳 0。
func (a *Array[T]) Len0() int {
	if len(a.shape) == 0 {
		return 0
	}
	return a.shape[0]
}

// Row 回傳第 0 軸第 i 個子陣列的連續切片（共用記憶體）。
func (a *Array[T]) Row(i int) []T {
	k := a.Len0()
	if k == 0 {
		return nil
	}
	m := len(a.data) / k
	return a.data[i*m : (i+1)*m]
}

// At 以多維索引讀取元素；索引數必須等於維度數。
func (a *Array[T]) At(idx ...int) T {
	return a.data[a.offset(idx)]
}

// Set 以多維索引寫入元素
func (a *Array[T]) Set(v T, idx ...int) {
	a.data[a.offset(idx)] = v
}

// Clone 深複製
func (a *Array[T]) Clone() *Array[T] {
	return &Array[T]{shape: slices.Clone(a.shape), data: slices.Clone(a.data)}
}

func (a *Array[T]) String() string {
	return fmt.Sprintf("nd.Array%s%v", a.shape, a.data)
}

func (a *Array[T]) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("nd: %d indices for %d-d array", len(idx), len(a.shape)))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= a.shape[i] {
			panic(fmt.Sprintf("nd: index %d out of range for axis %d with size %d", x, i, a.shape[i]))
		}
		off = off*a.shape[i] + x
	}
	return off
}

// SumAxis0 沿第 0 軸加總，結果形狀為 a.Inner()。用於驗證「各類別計數加總 == N」。
func SumAxis0[T Numbers](a *Array[T]) *Array[T] {
	out := &Array[T]{shape: a.Inner(), data: make([]T, a.Inner().Size())}
	for i := 0; i < a.Len0(); i++ {
		for j, v := range a.Row(i) {
			out.data[j] += v
		}
	}
	return out
}

// Convert 逐元素轉型
func Convert[U, T Numbers](a *Array[T]) *Array[U] {
	out := &Array[U]{shape: slices.Clone(a.shape), data: make([]U, len(a.data))}
	for i, v := range a.data {
		out.data[i] = U(v)
	}
	return out
}
