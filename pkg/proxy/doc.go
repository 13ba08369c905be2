// Package proxy synthesizes implementations of contracts at runtime.
//
// A contract is a Go interface whose properties follow the accessor
// convention GetX() T / SetX(T), or a contract declared in a YAML document.
// Four modes are available:
//
//	CreateContract         one field per property, optional initializer
//	CreateContractFromMap  properties stored in a caller-owned map
//	CreateProxy            every member forwarded to a target
//	CreateSubtype          a distinct runtime subtype of a struct type
//
// Each (contract, mode) pair is synthesized once per Engine; later calls reuse
// the cached type. Instances are *Object values:
//
//	type Account interface {
//		GetNumber() int
//		SetNumber(int)
//	}
//
//	acct, err := proxy.CreateContractWith[Account](func(o *proxy.Object) error {
//		return o.Set("Number", 42)
//	})
//	n, err := proxy.Get[int](acct, "Number")
package proxy
