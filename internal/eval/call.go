package eval

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Ship-Gate/ShipGate-sub007/internal/ast"
	"github.com/Ship-Gate/ShipGate-sub007/internal/token"
)

var entityMethods = map[string]bool{"exists": true, "lookup": true, "count": true, "getAll": true}

var builtinFns = map[string]bool{
	"count": true, "sum": true, "min": true, "max": true,
	"abs": true, "round": true, "floor": true, "ceil": true,
}

func (e *evaluator) evalCall(v *ast.Call, depth int) EvaluationResult {
	span := v.Span()

	if member, ok := v.Callee.(*ast.Member); ok {
		if entName, isEntity := e.entityName(member.Object); isEntity && entityMethods[member.Property] {
			return e.evalEntityCall(entName, member.Property, v.Args, depth, span)
		}
		objVal, ok := e.valueOf(member.Object, depth+1)
		if !ok {
			return result(Unknown, span, fmt.Sprintf("Cannot resolve receiver of %s", member.Property))
		}
		return e.evalValueMethod(objVal, member.Property, v.Args, depth, span)
	}

	if ident, ok := v.Callee.(*ast.Identifier); ok && builtinFns[ident.Name] {
		return e.evalBuiltinCall(ident.Name, v.Args, depth, span)
	}

	return result(Unknown, span, "Unsupported call expression")
}

// callValue computes a Call's actual result Value, used when a call
// appears as an operand of comparison or arithmetic rather than as a
// standalone predicate (e.g. `input.email.concat(suffix) == expected`).
func (e *evaluator) callValue(v *ast.Call, depth int) (Value, bool) {
	member, ok := v.Callee.(*ast.Member)
	if !ok {
		if ident, ok := v.Callee.(*ast.Identifier); ok && builtinFns[ident.Name] {
			return e.builtinValue(ident.Name, v.Args, depth)
		}
		return Value{}, false
	}

	if entName, isEntity := e.entityName(member.Object); isEntity && entityMethods[member.Property] {
		store := entityStoreOf(e.ctx.Store)
		criteria := e.criteriaOf(v.Args, depth)
		switch member.Property {
		case "exists":
			return Bool(store != nil && store.Exists(entName, criteria)), true
		case "lookup":
			return e.opts.Adapter.Lookup(store, entName, criteria)
		case "count":
			if store == nil {
				return Value{}, false
			}
			return IntValue(int64(store.Count(entName, criteria))), true
		case "getAll":
			if store == nil {
				return Value{}, false
			}
			var items []Value
			for _, inst := range store.GetAll(entName) {
				items = append(items, Map(inst.Fields))
			}
			return List(items), true
		}
		return Value{}, false
	}

	objVal, ok := e.valueOf(member.Object, depth+1)
	if !ok {
		return Value{}, false
	}
	return e.valueMethodValue(objVal, member.Property, v.Args, depth)
}

func (e *evaluator) valueMethodValue(obj Value, method string, args []ast.Expr, depth int) (Value, bool) {
	switch method {
	case "length":
		n, ok := e.opts.Adapter.Length(obj)
		if !ok {
			return Value{}, false
		}
		return IntValue(int64(n)), true
	case "contains":
		if len(args) != 1 {
			return Value{}, false
		}
		needle, ok := e.valueOf(args[0], depth+1)
		if !ok {
			return Value{}, false
		}
		switch obj.Kind {
		case StringVal:
			return Bool(needle.Kind == StringVal && strings.Contains(obj.S, needle.S)), true
		case ListVal:
			for _, item := range obj.L {
				if Equal(item, needle) {
					return Bool(true), true
				}
			}
			return Bool(false), true
		default:
			return Value{}, false
		}
	case "startsWith", "endsWith":
		if obj.Kind != StringVal || len(args) != 1 {
			return Value{}, false
		}
		arg, ok := e.valueOf(args[0], depth+1)
		if !ok || arg.Kind != StringVal {
			return Value{}, false
		}
		if method == "startsWith" {
			return Bool(strings.HasPrefix(obj.S, arg.S)), true
		}
		return Bool(strings.HasSuffix(obj.S, arg.S)), true
	case "concat":
		if obj.Kind != StringVal || len(args) != 1 {
			return Value{}, false
		}
		other, ok := e.valueOf(args[0], depth+1)
		if !ok {
			return Value{}, false
		}
		return String(obj.S + other.String()), true
	case "isEmpty":
		if obj.Kind != ListVal {
			return Value{}, false
		}
		return Bool(len(obj.L) == 0), true
	case "sum":
		if obj.Kind != ListVal {
			return Value{}, false
		}
		total := decimal.Zero
		for _, item := range obj.L {
			if item.Kind != NumberVal {
				return Value{}, false
			}
			total = total.Add(item.N)
		}
		return Number(total), true
	case "count":
		if obj.Kind != ListVal {
			return Value{}, false
		}
		return IntValue(int64(len(obj.L))), true
	case "is_valid":
		tv := e.opts.Adapter.IsValid(obj)
		if tv == Unknown {
			return Value{}, false
		}
		return Bool(tv == True), true
	default:
		return Value{}, false
	}
}

func (e *evaluator) builtinValue(name string, args []ast.Expr, depth int) (Value, bool) {
	var nums []decimal.Decimal
	for _, a := range args {
		val, ok := e.valueOf(a, depth+1)
		if ok && val.Kind == ListVal {
			for _, item := range val.L {
				if item.Kind == NumberVal {
					nums = append(nums, item.N)
				}
			}
			continue
		}
		if !ok || val.Kind != NumberVal {
			return Value{}, false
		}
		nums = append(nums, val.N)
	}
	switch name {
	case "count":
		return IntValue(int64(len(nums))), true
	case "sum":
		total := decimal.Zero
		for _, n := range nums {
			total = total.Add(n)
		}
		return Number(total), true
	case "min":
		if len(nums) == 0 {
			return Value{}, false
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n.LessThan(m) {
				m = n
			}
		}
		return Number(m), true
	case "max":
		if len(nums) == 0 {
			return Value{}, false
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n.GreaterThan(m) {
				m = n
			}
		}
		return Number(m), true
	case "abs":
		if len(nums) != 1 {
			return Value{}, false
		}
		return Number(nums[0].Abs()), true
	case "round":
		if len(nums) != 1 {
			return Value{}, false
		}
		return Number(nums[0].Round(0)), true
	case "floor":
		if len(nums) != 1 {
			return Value{}, false
		}
		return Number(nums[0].Floor()), true
	case "ceil":
		if len(nums) != 1 {
			return Value{}, false
		}
		return Number(nums[0].Ceil()), true
	default:
		return Value{}, false
	}
}

func (e *evaluator) entityName(expr ast.Expr) (string, bool) {
	ident, ok := expr.(*ast.Identifier)
	if !ok || e.ctx.Domain == nil {
		return "", false
	}
	for _, ent := range e.ctx.Domain.Entities {
		if ent.Name == ident.Name {
			return ident.Name, true
		}
	}
	return "", false
}

// criteriaOf builds a lookup/exists criteria map from the call's
// argument list: named arguments (`name == value`), a single object
// literal, or a single positional value becoming `{id: value}` (§4.5
// "Call … On an entity name").
func (e *evaluator) criteriaOf(args []ast.Expr, depth int) map[string]Value {
	criteria := map[string]Value{}
	if len(args) == 0 {
		return criteria
	}
	if len(args) == 1 {
		if bin, ok := args[0].(*ast.Binary); ok && bin.Op == ast.OpEq {
			if ident, ok := bin.Left.(*ast.Identifier); ok {
				if val, ok := e.valueOf(bin.Right, depth+1); ok {
					criteria[ident.Name] = val
					return criteria
				}
			}
		}
		if m, ok := args[0].(*ast.MapExpr); ok {
			val, ok := e.valueOf(m, depth+1)
			if ok {
				for k, v := range val.M {
					criteria[k] = v
				}
			}
			return criteria
		}
		if val, ok := e.valueOf(args[0], depth+1); ok {
			criteria["id"] = val
			return criteria
		}
		return criteria
	}
	for _, a := range args {
		bin, ok := a.(*ast.Binary)
		if !ok || bin.Op != ast.OpEq {
			continue
		}
		ident, ok := bin.Left.(*ast.Identifier)
		if !ok {
			continue
		}
		if val, ok := e.valueOf(bin.Right, depth+1); ok {
			criteria[ident.Name] = val
		}
	}
	return criteria
}

func (e *evaluator) evalEntityCall(entity, method string, args []ast.Expr, depth int, span token.Span) EvaluationResult {
	store := entityStoreOf(e.ctx.Store)
	criteria := e.criteriaOf(args, depth)

	switch method {
	case "exists":
		tv := e.opts.Adapter.Exists(store, entity, criteria)
		if tv == Unknown {
			return result(Unknown, span, fmt.Sprintf("Cannot determine if %s exists", entity))
		}
		return result(tv, span, "")
	case "lookup":
		val, ok := e.opts.Adapter.Lookup(store, entity, criteria)
		if !ok {
			return result(Unknown, span, fmt.Sprintf("%s not found", entity))
		}
		return result(fromBool(val.Truthy()), span, "")
	case "count":
		if store == nil {
			return result(Unknown, span, "Entity store unavailable")
		}
		n := store.Count(entity, criteria)
		return result(fromBool(n > 0), span, "")
	case "getAll":
		if store == nil {
			return result(Unknown, span, "Entity store unavailable")
		}
		all := store.GetAll(entity)
		return result(fromBool(len(all) > 0), span, "")
	default:
		return result(Unknown, span, "Unsupported entity method")
	}
}

func entityStoreOf(s EntityStore) EntityStoreSnapshot {
	if s == nil {
		return nil
	}
	return s
}

func (e *evaluator) evalValueMethod(obj Value, method string, args []ast.Expr, depth int, span token.Span) EvaluationResult {
	switch method {
	case "is_valid":
		return result(e.opts.Adapter.IsValid(obj), span, "")
	case "length":
		n, ok := e.opts.Adapter.Length(obj)
		if !ok {
			return result(Unknown, span, "Length undefined for this value")
		}
		return result(fromBool(n > 0), span, "")
	case "contains":
		if len(args) != 1 {
			return result(Unknown, span, "contains expects one argument")
		}
		needle, ok := e.valueOf(args[0], depth+1)
		if !ok {
			return result(Unknown, span, "Cannot resolve argument")
		}
		switch obj.Kind {
		case StringVal:
			if needle.Kind != StringVal {
				return result(False, span, "contains expects a string argument")
			}
			return result(fromBool(strings.Contains(obj.S, needle.S)), span, "")
		case ListVal:
			for _, item := range obj.L {
				if Equal(item, needle) {
					return result(True, span, "")
				}
			}
			return result(False, span, "Value not found in collection")
		default:
			return result(False, span, "contains is only defined on strings and arrays")
		}
	case "startsWith":
		return e.stringPredicate(obj, args, depth, span, strings.HasPrefix)
	case "endsWith":
		return e.stringPredicate(obj, args, depth, span, strings.HasSuffix)
	case "concat":
		if obj.Kind != StringVal || len(args) != 1 {
			return result(Unknown, span, "concat expects a string receiver and one argument")
		}
		other, ok := e.valueOf(args[0], depth+1)
		if !ok {
			return result(Unknown, span, "Cannot resolve argument")
		}
		return result(fromBool(obj.S+other.String() != ""), span, "")
	case "isEmpty":
		if obj.Kind != ListVal {
			return result(Unknown, span, "isEmpty is only defined on arrays")
		}
		return result(fromBool(len(obj.L) == 0), span, "")
	case "sum":
		if obj.Kind != ListVal {
			return result(Unknown, span, "sum is only defined on arrays")
		}
		total := decimal.Zero
		for _, item := range obj.L {
			if item.Kind != NumberVal {
				return result(False, span, "sum requires numeric elements")
			}
			total = total.Add(item.N)
		}
		return result(fromBool(!total.IsZero()), span, "")
	case "count":
		if obj.Kind != ListVal {
			return result(Unknown, span, "count is only defined on arrays")
		}
		return result(fromBool(len(obj.L) > 0), span, "")
	case "index":
		if obj.Kind != ListVal || len(args) != 1 {
			return result(Unknown, span, "index expects an array receiver and one argument")
		}
		needle, ok := e.valueOf(args[0], depth+1)
		if !ok {
			return result(Unknown, span, "Cannot resolve argument")
		}
		for _, item := range obj.L {
			if Equal(item, needle) {
				return result(True, span, "")
			}
		}
		return result(False, span, "Value not found in collection")
	default:
		return result(Unknown, span, fmt.Sprintf("Unsupported method %q", method))
	}
}

func (e *evaluator) stringPredicate(obj Value, args []ast.Expr, depth int, span token.Span, pred func(s, prefix string) bool) EvaluationResult {
	if obj.Kind != StringVal || len(args) != 1 {
		return result(Unknown, span, "expects a string receiver and one argument")
	}
	arg, ok := e.valueOf(args[0], depth+1)
	if !ok || arg.Kind != StringVal {
		return result(Unknown, span, "Cannot resolve argument")
	}
	return result(fromBool(pred(obj.S, arg.S)), span, "")
}

func (e *evaluator) evalBuiltinCall(name string, args []ast.Expr, depth int, span token.Span) EvaluationResult {
	var nums []decimal.Decimal
	for _, a := range args {
		val, ok := e.valueOf(a, depth+1)
		if ok && val.Kind == ListVal {
			for _, item := range val.L {
				if item.Kind == NumberVal {
					nums = append(nums, item.N)
				}
			}
			continue
		}
		if !ok || val.Kind != NumberVal {
			return result(Unknown, span, fmt.Sprintf("%s requires numeric arguments", name))
		}
		nums = append(nums, val.N)
	}

	switch name {
	case "count":
		return result(fromBool(len(nums) > 0), span, "")
	case "sum":
		total := decimal.Zero
		for _, n := range nums {
			total = total.Add(n)
		}
		return result(fromBool(!total.IsZero()), span, "")
	case "min":
		if len(nums) == 0 {
			return result(Unknown, span, "min of empty collection")
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n.LessThan(m) {
				m = n
			}
		}
		return result(fromBool(!m.IsZero()), span, "")
	case "max":
		if len(nums) == 0 {
			return result(Unknown, span, "max of empty collection")
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n.GreaterThan(m) {
				m = n
			}
		}
		return result(fromBool(!m.IsZero()), span, "")
	case "abs":
		if len(nums) != 1 {
			return result(Unknown, span, "abs expects one argument")
		}
		return result(fromBool(!nums[0].Abs().IsZero()), span, "")
	case "round", "floor", "ceil":
		if len(nums) != 1 {
			return result(Unknown, span, fmt.Sprintf("%s expects one argument", name))
		}
		return result(True, span, "")
	default:
		return result(Unknown, span, "Unsupported builtin")
	}
}
