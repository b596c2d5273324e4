package outfitting

// BandCount is the number of power priority bands. Band 0 is serviced first.
const BandCount = 5

// BandTotals is a read-only view of one priority band
type BandTotals struct {
	Retracted    float64
	Deployed     float64
	RetractedSum float64
	DeployedSum  float64
}

type band struct {
	retracted    milli
	deployed     milli
	retractedSum milli
	deployedSum  milli
}

// PriorityBands attributes every powered slot's draw to one band.
//
// Invariants (after recompute):
// - retractedSum[i] = retractedSum[i-1] + retracted[i]
// - deployedSum[i] = deployedSum[i-1] + deployed[i] + retracted[i]
//
// The per-band totals are adjusted on every change. The prefix sums are only brought
// up to date by recompute, which the ship runs when it flushes pending power work.
type PriorityBands struct {
	bands [BandCount]band
}

func (p *PriorityBands) add(priority int, deployed bool, power milli) {
	if deployed {
		p.bands[priority].deployed += power
	} else {
		p.bands[priority].retracted += power
	}
}

func (p *PriorityBands) reset() {
	p.bands = [BandCount]band{}
}

func (p *PriorityBands) recompute() {
	var retracted, deployed milli
	for i := range p.bands {
		b := &p.bands[i]
		retracted += b.retracted
		deployed += b.deployed + b.retracted
		b.retractedSum = retracted
		b.deployedSum = deployed
	}
}

// retractedTotal and deployedTotal read the last prefix sums
func (p *PriorityBands) retractedTotal() milli { return p.bands[BandCount-1].retractedSum }
func (p *PriorityBands) deployedTotal() milli  { return p.bands[BandCount-1].deployedSum }

// demand is the draw with hardpoints deployed computed from the per-band totals, so it
// is current even while a recompute is pending.
func (p *PriorityBands) demand() milli {
	var total milli
	for _, b := range p.bands {
		total += b.retracted + b.deployed
	}
	return total
}

// Band returns the totals of band i
func (p *PriorityBands) Band(i int) BandTotals {
	b := p.bands[i]
	return BandTotals{
		Retracted:    b.retracted.float(),
		Deployed:     b.deployed.float(),
		RetractedSum: b.retractedSum.float(),
		DeployedSum:  b.deployedSum.float(),
	}
}

// All returns every band in priority order
func (p *PriorityBands) All() []BandTotals {
	all := make([]BandTotals, BandCount)
	for i := range all {
		all[i] = p.Band(i)
	}
	return all
}

func validPriority(priority int) bool {
	return priority >= 0 && priority < BandCount
}
