package column

// Prop 列属性，要么是固定值，要么由上下文计算
type Prop[C any, T any] struct {
	value T
	fn    func(C) T
}

// Static 固定值属性
func Static[C any, T any](value T) Prop[C, T] {
	return Prop[C, T]{value: value}
}

// Computed 计算属性
func Computed[C any, T any](fn func(C) T) Prop[C, T] {
	return Prop[C, T]{fn: fn}
}

// Resolve 求属性值，零值 Prop 返回 T 的零值
func (p Prop[C, T]) Resolve(ctx C) T {
	if p.fn != nil {
		return p.fn(ctx)
	}
	return p.value
}

func (p Prop[C, T]) IsComputed() bool {
	return p.fn != nil
}

// Value 返回固定值，计算属性返回 false
func (p Prop[C, T]) Value() (T, bool) {
	if p.fn != nil {
		var zero T
		return zero, false
	}
	return p.value, true
}

// Project 把 C 上的属性变成 D 上的属性
// 计算属性先用 fn 把 D 投影成 C 再求值，固定值原样保留
func Project[C any, D any, T any](p Prop[C, T], fn func(D) C) Prop[D, T] {
	if p.fn == nil {
		return Prop[D, T]{value: p.value}
	}
	inner := p.fn
	return Prop[D, T]{fn: func(d D) T {
		return inner(fn(d))
	}}
}
