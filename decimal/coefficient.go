package decimal

// ndigits returns the number of decimal digits in the coefficient.
// Unlike [bint.prec], it counts 0 as a single digit.
func ndigits(x *bint) int {
	if x.sign() == 0 {
		return 1
	}
	return x.prec()
}

// roundSig rounds x to at most prec significant digits using "half to even"
// rule and returns the rounded coefficient together with the number of
// digits it was shifted right by.
func roundSig(x *bint, prec int) (*bint, int) {
	n := ndigits(x)
	if prec <= 0 || n <= prec {
		return x, 0
	}
	shift := n - prec
	z := newBint()
	z.rshHalfEven(x, shift)
	// Rounding 999 up produces 1000, which has one digit too many.
	if z.prec() > prec {
		z.quoRemSmall(z, 10)
		shift++
	}
	return z, shift
}

// trimZeros moves the trailing zeros of x into exp.
func trimZeros(x *bint, exp int) (*bint, int) {
	if x.sign() == 0 {
		return x, exp
	}
	z := x.ntz()
	if z == 0 {
		return x, exp
	}
	y := newBint()
	y.rshHalfEven(x, z)
	return y, exp + z
}

// padZeros appends zeros to x until it has prec digits.
func padZeros(x *bint, exp, prec int) (*bint, int) {
	n := prec - ndigits(x)
	if n <= 0 || x.sign() == 0 {
		return x, exp
	}
	y := newBint()
	y.lsh(x, n)
	return y, exp - n
}

// strip25 removes all factors of 2 and 5 from x and returns the number of
// times each was removed.
// It is used to decide whether a quotient of integers has a finite decimal expansion.
func strip25(x *bint) (rest *bint, twos, fives int) {
	rest = newBint()
	rest.setBint(x)
	q := newBint()
	for rest.sign() != 0 {
		if q.quoRemSmall(rest, 2) != 0 {
			break
		}
		rest.setBint(q)
		twos++
	}
	for rest.sign() != 0 {
		if q.quoRemSmall(rest, 5) != 0 {
			break
		}
		rest.setBint(q)
		fives++
	}
	return rest, twos, fives
}

// minPrec returns the smallest non-zero precision, or 0 if all are exact.
func minPrec(precs ...int) int {
	m := 0
	for _, p := range precs {
		if p > 0 && (m == 0 || p < m) {
			m = p
		}
	}
	return m
}
