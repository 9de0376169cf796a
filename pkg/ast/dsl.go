package ast

// Literal helpers.

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int32) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Flt(value float32) *FloatLiteral {
	return NewFloatLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements)
}

func Map(entries ...*MapEntry) *MapLiteral {
	return NewMapLiteral(entries)
}

func Entry(key Name, value Expression) *MapEntry {
	return NewMapEntry(key, value)
}

// Expression helpers.

func Do(expressions ...Expression) *Block {
	return NewBlock(expressions)
}

func Assign(name Name, value Expression) *Assignment {
	return NewAssignment(name, value)
}

func Var(name Name) *Invoke {
	return NewInvoke(name)
}

func Call(module, item Name, args ...Expression) *FunctionCall {
	return NewFunctionCall(NewPath(module, item), args)
}

func If(test, whenTrue, whenFalse Expression) *Condition {
	return NewCondition(test, whenTrue, whenFalse)
}

func LoopOf(body Expression) *Loop {
	return NewLoop(body)
}

func Ret(argument Expression) *Return {
	return NewReturn(argument)
}

func Brk(argument Expression) *Break {
	return NewBreak(argument)
}

// Module helpers.

func Fn(name Name, params []Name, body ...Expression) *FunctionDefinition {
	return NewFunctionDefinition(name, params, NewBlock(body))
}

func Exports(names ...Name) *Export {
	return NewExport(names)
}

func Imports(module Name, items ...Name) *Import {
	return NewImport(module, items)
}

func Mod(items ...Item) *Module {
	return NewModule(items)
}
