/*
Package ucum implements the Unified Code for Units of Measure.

It parses unit expressions such as "kg.m/s2" or "mm[Hg]", reduces them to
a canonical form over base units and converts measured values between
comparable units without losing track of their significant digits.

# Registry

A [Registry] is an immutable catalog of prefixes and units.
[Essence] returns the registry of the UCUM essence dataset embedded in
this package; [LoadRegistry] and [NewRegistry] build others, for example
small synthetic registries in tests.
Construction fails with an [*IntegrityError] listing every duplicate code,
invalid definition and definition cycle found.

Units come in four kinds:

  - [KindBase] units span the dimension space: m, s, g, rad, K, C and cd.
  - [KindDefined] units are a coefficient times an expression over other
    units, for example [in_i] is 2.54 cm.
  - [KindSpecial] units relate to their definition through a non-linear
    function, for example Cel (an offset from K) or B (a decadic logarithm).
  - [KindArbitrary] units such as [iU] are their own axis and are
    comparable only with themselves.

# Expressions

The grammar is

	term       ::= ['/'] component {('.' | '/') component}
	component  ::= factor [exponent] [annotation] | annotation
	factor     ::= '(' term ')' | [prefix] unit | digits
	exponent   ::= ['+' | '-'] digits
	annotation ::= '{' text '}'

Operators are left-associative, so "m/s.kg" is (m/s).kg.
Annotations are checked for balance but carry no meaning.
Symbols are matched against case-sensitive codes first and against
case-insensitive codes if that fails.
A symbol that splits into a prefix and a metric unit is read that way,
longest prefix first; otherwise it must be a unit code itself.

# Canonical forms

[Registry.Canonicalize] reduces a term to a [CanonicalForm]: a [Dimension]
with exact rational exponents, a [Scale] and, for special units,
the [Transform] to apply.
Two units are comparable when their dimensions are equal.
Special units may appear at most once in an expression and only with
exponent 1.

# Services

[Service] bundles the operations of a terminology service:
validation, canonical units, comparability, conversion and the algebra
of measured values, with optional memoization of canonical forms.
*/
package ucum
