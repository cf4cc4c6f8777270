/*
Package decimal implements immutable arbitrary-precision decimal numbers
that keep track of how many of their digits are significant.
It is designed for measured quantities, where the precision of a result
must never overstate the certainty of its inputs.

# Representation

[Decimal] is a struct with four fields:

  - Sign: a boolean indicating whether the decimal is negative.
  - Coefficient: an arbitrary-precision unsigned integer representing the
    numeric value of the decimal without the decimal point.
  - Exponent: an integer indicating the power of ten the coefficient is
    multiplied by.
    For example, a decimal with a coefficient of 12345 and an exponent of -2
    represents the value 123.45.
  - Precision: the number of significant digits known to be correct,
    or 0 if the decimal is exact.

The numerical value of a decimal is calculated as:

  - -Coefficient * 10^Exponent, if Sign is true.
  - Coefficient * 10^Exponent, if Sign is false.

In this approach, 1, 1.0, and 1.00 all represent the same value but have
different precisions: 1 is an exact count, 1.0 has two significant digits
and 1.00 has three.

# Exact and inexact decimals

[Parse] treats an integer literal without a fractional part and without
an exponent as exact.
Any other literal is a measurement with as many significant digits as
were written:

	| Literal  | Coefficient | Exponent | Precision |
	| -------- | ----------- | -------- | --------- |
	| 12       | 12          | 0        | exact     |
	| 12.0     | 120         | -1       | 3         |
	| 0.0012   | 12          | -4       | 2         |
	| 1.5e3    | 15          | 2        | 2         |

Conversion factors and other defined constants are made exact with
[Decimal.Exact].

# Operations

Every arithmetic operation is computed exactly using [big.Int] arithmetic
and rounded once at the end, using half-to-even rounding:

  - [Decimal.Mul], [Decimal.Quo], [Decimal.MulQuo], [Decimal.Pow]:
    the result has as many significant digits as the least precise
    inexact operand.
  - [Decimal.Add], [Decimal.Sub]:
    the result is rounded to the least precise decimal place of the
    inexact operands.

Operations on exact decimals produce exact decimals, with one exception:
a quotient without a finite decimal expansion is rounded to [DivPrec]
significant digits and becomes inexact.

# Errors

All methods are panic-free and pure, except the MustX helpers.
Errors are returned in the following cases:

  - Malformed Number.
    [Parse] returns an error wrapping [ErrMalformedNumber].

  - Division by Zero.
    [Decimal.Quo], [Decimal.MulQuo] and [Decimal.Inv] return an error
    wrapping [ErrDivisionByZero] when the divisor is exactly 0.

  - Invalid Operation.
    [Decimal.Pow] returns an error if 0 is raised to a negative power.

[big.Int]: https://pkg.go.dev/math/big#Int
*/
package decimal
