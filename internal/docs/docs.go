// Package docs holds the hover documentation and completion vocabulary for Scilla.
package docs

// Kind groups entries the way editors present them.
type Kind string

const (
	Keyword   Kind = "keyword"
	Type      Kind = "type"
	Operation Kind = "operation"
)

// Entry documents one word of the language.
type Entry struct {
	Label string
	Kind  Kind
	Doc   string // markdown
}

var entries = []Entry{
	// Keywords
	{"let", Keyword, "**let:** Give `f` the name `x` in the contract (`let x = f`). The binding of `x` to `f` is global and extends to the end of the contract."},
	{"contains", Keyword, "**contains:** In `contains m k`, is the key `k` associated with a value in the map `m`? Returns a `Bool`. Typically used in `library` functions."},
	{"delete", Keyword, "**delete:** `delete m[k]` removes `k` from the field map `m` in place, without copying `m`. Nested maps are supported with `delete m[k1][k2][...]`; only the innermost key-value association is removed. Missing keys are ignored."},
	{"put", Keyword, "**put:** `put m k v` returns a copy of the map `m` with `k` associated with `v`. The value of `m` is unchanged. Typically used in library functions."},
	{"remove", Keyword, "**remove:** `remove m k` returns a copy of the map `m` with `k` no longer associated with a value. The value of `m` is unchanged. Typically used in library functions."},
	{"library", Keyword, "**library:** Declares the contract's own library values and functions."},
	{"import", Keyword, "**import:** Brings standard library files into scope, e.g. `import ListUtils IntUtils`. Must appear immediately before the contract's own library declaration."},
	{"contract", Keyword, "**contract:** Declares a contract, e.g. `contract MyContract`."},
	{"event", Keyword, "**event:** `event e` emits the message `e` as an event, e.g. `e = { _eventname : \"e_name\"; <entry>_2 ; <entry>_3 }; event e`."},
	{"field", Keyword, "**field:** `field vname : vtype = expr` declares a mutable contract variable. Fields are declared after the immutable parameters."},
	{"send", Keyword, "**send:** `send msgs` sends a list of messages, e.g. `msg = { _tag : \"setHello\"; _recipient : contractAddress; _amount : Uint128 0; param : Uint32 0 };`."},
	{"fun", Keyword, "**fun:** `fun (x : T) => expr` is a function taking `x` of type `T` and returning the value of `expr`."},
	{"transition", Keyword, "**transition:** Defines a change in the state of the contract, followed by its parameters and closed by `end`.\n\n`transition foo (vname_1 : vtype_1, vname_2 : vtype_2, ...) ... end`"},
	{"procedure", Keyword, "**procedure:** Like a transition, but only callable from transitions and procedures of the same contract. Closed by `end`."},
	{"match", Keyword, "**match:** Matches a bound variable against patterns and evaluates the first matching clause.\n\n`match x with | pattern_1 => expression_1 | _ => expression end`"},
	{"end", Keyword, "**end:** Closes a transition, procedure or match."},
	{"with", Keyword, "**with:** Used with `match`, e.g. `match x with`."},
	{"builtin", Keyword, "**builtin:** Performs a built-in operation, e.g. `builtin add i1 i2` adds `i1` and `i2`."},
	{"accept", Keyword, "**accept:** Accepts the funds sent with the incoming message."},
	{"throw", Keyword, "**throw:** Aborts the transition, optionally with an exception value."},
	{"in", Keyword, "**in:** Separates a local `let` binding from the expression it scopes over."},
	{"type", Keyword, "**type:** Declares a user-defined algebraic data type."},
	{"scilla_version", Keyword, "**scilla_version:** The contract starts with `scilla_version`, the major Scilla version the contract uses."},

	// Types and constructors
	{"String", Type, "`String`: a sequence of characters enclosed in double quotes."},
	{"Uint32", Type, "`Uint32`: 32 bit unsigned integer."},
	{"Uint64", Type, "`Uint64`: 64 bit unsigned integer."},
	{"Uint128", Type, "`Uint128`: 128 bit unsigned integer."},
	{"Uint256", Type, "`Uint256`: 256 bit unsigned integer."},
	{"Int32", Type, "`Int32`: 32 bit signed integer."},
	{"Int64", Type, "`Int64`: 64 bit signed integer."},
	{"Int128", Type, "`Int128`: 128 bit signed integer."},
	{"Int256", Type, "`Int256`: 256 bit signed integer."},
	{"Map", Type, "`Map kt vt`: a key-value store with keys of type `kt` and values of type `vt`."},
	{"Bool", Type, "`Bool`: boolean values, `True` or `False`."},
	{"True", Type, "`True`: constructor of `Bool`."},
	{"False", Type, "`False`: constructor of `Bool`."},
	{"ByStr20", Type, "`ByStr20`: a hexadecimal byte string of 20 bytes (40 hex characters), used for addresses. Literals are prefixed with `0x`."},
	{"ByStr32", Type, "`ByStr32`: a hexadecimal byte string of 32 bytes (64 hex characters), used for hashes. Literals are prefixed with `0x`."},
	{"ByStr33", Type, "`ByStr33`: a Schnorr public key."},
	{"ByStr64", Type, "`ByStr64`: a digital signature."},
	{"BNum", Type, "`BNum`: block numbers, e.g. `BNum 101`."},
	{"Option", Type, "`Option t`: an optional value of type `t`, built with `Some` or `None`."},
	{"Some", Type, "`Some`: constructor of `Option` holding one value of type `t`."},
	{"None", Type, "`None`: constructor of `Option` representing the absence of a value."},
	{"List", Type, "`List t`: a list of values of type `t`, built with `Nil` and `Cons`."},
	{"Nil", Type, "`Nil`: constructor of `List` for the empty list."},
	{"Cons", Type, "`Cons`: constructor of `List` taking the first element (of type `t`) and the rest of the list (of type `List t`)."},
	{"Pair", Type, "`Pair t1 t2`: a pair of values of types `t1` and `t2`."},
	{"Nat", Type, "`Nat`: Peano numbers, built with `Zero` and `Succ`."},
	{"Zero", Type, "`Zero`: constructor of `Nat` for the number `0`."},
	{"Succ", Type, "`Succ`: constructor of `Nat` for the successor of another `Nat`."},
	{"Message", Type, "`Message`: a message to another account or contract, written as a record of `_tag`, `_recipient`, `_amount` and parameters."},

	// Builtin operations
	{"eq", Operation, "**eq:** `builtin eq i1 i2`: is `i1` equal to `i2`? Returns a `Bool`."},
	{"add", Operation, "**add:** `builtin add i1 i2`: sum of `i1` and `i2`, an integer of the same type."},
	{"sub", Operation, "**sub:** `builtin sub i1 i2`: `i1` minus `i2`, an integer of the same type."},
	{"mul", Operation, "**mul:** `builtin mul i1 i2`: product of `i1` and `i2`, an integer of the same type."},
	{"div", Operation, "**div:** `builtin div i1 i2`: integer division of `i1` by `i2`."},
	{"rem", Operation, "**rem:** `builtin rem i1 i2`: remainder of the integer division of `i1` by `i2`."},
	{"lt", Operation, "**lt:** `builtin lt i1 i2`: is `i1` less than `i2`? Returns a `Bool`."},
	{"blt", Operation, "**blt:** `builtin blt b1 b2`: is block number `b1` less than `b2`? Returns a `Bool`."},
	{"pow", Operation, "**pow:** `builtin pow i1 i2`: `i1` raised to the power `i2`, of the same type as `i1`."},
	{"concat", Operation, "**concat:** `builtin concat x1 x2`: concatenates `x1` and `x2`. For byte strings of types `ByStrX` and `ByStrY` the result is `ByStr(X+Y)`."},
	{"substr", Operation, "**substr:** `builtin substr s i1 i2`: the substring of `s` of length `i2` starting at `i1` (both `Uint32`). Returns a `String`."},
	{"sha256hash", Operation, "**sha256hash:** `builtin sha256hash x`: SHA256 hash of `x`, a `ByStr32`."},
	{"keccak256hash", Operation, "**keccak256hash:** `builtin keccak256hash x`: Keccak256 hash of `x`, a `ByStr32`."},
	{"ripemd160hash", Operation, "**ripemd160hash:** `builtin ripemd160hash x`: RIPEMD-160 hash of `x`, a `ByStr20`."},
	{"to_byStr", Operation, "**to_byStr:** `builtin to_byStr x`: converts `x` of type `ByStrX` to an arbitrary length `ByStr`."},
	{"to_nat", Operation, "**to_nat:** `builtin to_nat i`: converts a `Uint32` to the equivalent `Nat`."},
	{"to_uint32", Operation, "**to_uint32:** `builtin to_uint32 x`: converts `x` to `Option Uint32`."},
	{"to_uint64", Operation, "**to_uint64:** `builtin to_uint64 x`: converts `x` to `Option Uint64`."},
	{"to_uint128", Operation, "**to_uint128:** `builtin to_uint128 x`: converts `x` to `Option Uint128`."},
	{"to_uint256", Operation, "**to_uint256:** `builtin to_uint256 x`: converts `x` to `Option Uint256`."},
	{"to_int32", Operation, "**to_int32:** `builtin to_int32 x`: converts `x` to `Option Int32`."},
	{"to_int64", Operation, "**to_int64:** `builtin to_int64 x`: converts `x` to `Option Int64`."},
	{"to_int128", Operation, "**to_int128:** `builtin to_int128 x`: converts `x` to `Option Int128`."},
	{"to_int256", Operation, "**to_int256:** `builtin to_int256 x`: converts `x` to `Option Int256`."},
	{"to_list", Operation, "**to_list:** `builtin to_list m`: the key-value pairs of map `m` as a `List (Pair kt vt)`."},
	{"schnorr_verify", Operation, "**schnorr_verify:** `builtin schnorr_verify pubk x sig`: verifies signature `sig` (`ByStr64`) of `x` against the Schnorr public key `pubk` (`ByStr33`)."},
	{"size", Operation, "**size:** `builtin size m`: number of entries in map `m`, a `Uint32`."},
}

var index = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Label] = e
	}
	return m
}()

// Lookup returns the entry for an exact word.
func Lookup(word string) (Entry, bool) {
	e, ok := index[word]
	return e, ok
}

// Entries returns every entry: keywords first, then types, then operations.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
