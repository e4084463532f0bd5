package optimizer

// layout assigns a column index to every decision variable. Variables are
// grouped per interval in fixed blocks so constraint rows can be emitted with
// simple arithmetic. Offsets for disabled subsystems are -1 and must never be
// dereferenced.
type layout struct {
	T    int
	perT int

	diesel   bool
	hydrogen bool
	elySegs  int
	fcSegs   int

	offGridImp int
	offGridExp int
	offPV      int
	offChg     int
	offDis     int
	offSoC     int
	offCurt    int

	offDieselP  int
	offDieselF  int
	offDieselOn int

	offElyP   int
	offElyH2  int
	offElySeg int
	offFCP    int
	offFCH2   int
	offFCSeg  int
	offTank   int
}

func newLayout(T int, diesel bool, hydrogen bool, elySegs, fcSegs int) layout {
	l := layout{
		T: T, diesel: diesel, hydrogen: hydrogen,
		elySegs: elySegs, fcSegs: fcSegs,
		offDieselP: -1, offDieselF: -1, offDieselOn: -1,
		offElyP: -1, offElyH2: -1, offElySeg: -1,
		offFCP: -1, offFCH2: -1, offFCSeg: -1, offTank: -1,
	}
	n := 0
	next := func() int { v := n; n++; return v }
	l.offGridImp = next()
	l.offGridExp = next()
	l.offPV = next()
	l.offChg = next()
	l.offDis = next()
	l.offSoC = next()
	l.offCurt = next()
	if diesel {
		l.offDieselP = next()
		l.offDieselF = next()
		l.offDieselOn = next()
	}
	if hydrogen {
		l.offElyP = next()
		l.offElyH2 = next()
		l.offElySeg = n
		n += elySegs
		l.offFCP = next()
		l.offFCH2 = next()
		l.offFCSeg = n
		n += fcSegs
		l.offTank = next()
	}
	l.perT = n
	return l
}

func (l layout) numVars() int { return l.T * l.perT }

func (l layout) gridImp(t int) int { return t*l.perT + l.offGridImp }
func (l layout) gridExp(t int) int { return t*l.perT + l.offGridExp }
func (l layout) pv(t int) int      { return t*l.perT + l.offPV }
func (l layout) chg(t int) int     { return t*l.perT + l.offChg }
func (l layout) dis(t int) int     { return t*l.perT + l.offDis }
func (l layout) soc(t int) int     { return t*l.perT + l.offSoC }
func (l layout) curt(t int) int    { return t*l.perT + l.offCurt }

func (l layout) dieselP(t int) int  { return t*l.perT + l.offDieselP }
func (l layout) dieselF(t int) int  { return t*l.perT + l.offDieselF }
func (l layout) dieselOn(t int) int { return t*l.perT + l.offDieselOn }

func (l layout) elyP(t int) int        { return t*l.perT + l.offElyP }
func (l layout) elyH2(t int) int       { return t*l.perT + l.offElyH2 }
func (l layout) elySeg(t, i int) int   { return t*l.perT + l.offElySeg + i }
func (l layout) fcP(t int) int         { return t*l.perT + l.offFCP }
func (l layout) fcH2(t int) int        { return t*l.perT + l.offFCH2 }
func (l layout) fcSeg(t, i int) int    { return t*l.perT + l.offFCSeg + i }
func (l layout) tank(t int) int        { return t*l.perT + l.offTank }

// binaries lists the columns that must take integral values: the diesel
// on/off indicators, and only when a minimum-load floor forces the MILP
// branch.
func (l layout) binaries(minLoad bool) []int {
	if !l.diesel || !minLoad {
		return nil
	}
	out := make([]int, 0, l.T)
	for t := 0; t < l.T; t++ {
		out = append(out, l.dieselOn(t))
	}
	return out
}
