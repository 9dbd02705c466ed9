package powerkit

// Shorthand constructors.

// PS creates a new PowerString from s. See Of.
func PS(s string) *PowerString {
	return Of(s)
}

// AsPS binds the shared PowerString to *s. See On.
func AsPS(s *string) *PowerString {
	return On(s)
}

// ToPS converts v into a new PowerString. See Cast.
func ToPS(v any) *PowerString {
	return Cast(v)
}

// PA creates a new PowerArray from items. See ArrayOf.
func PA(items []string) *PowerArray {
	return ArrayOf(items)
}

// AsPA binds the shared PowerArray to *items. See ArrayOn.
func AsPA(items *[]string) *PowerArray {
	return ArrayOn(items)
}

// ToPA converts v into a new PowerArray. See ArrayCast.
func ToPA(v any) *PowerArray {
	return ArrayCast(v)
}
