package core

import "math"

const (
	// meanRadiatingTemp is the mean radiating temperature of the rainy
	// atmosphere (K).
	meanRadiatingTemp = 275.0
	// referenceTemp is the 290 K reference for loss-to-noise conversion.
	referenceTemp = 290.0
)

// antennaNoiseUnderRain combines the sky brightness attenuated by the
// atmosphere, the attenuating medium's own emission, and ground pickup.
func antennaNoiseUnderRain(skyTempK, groundTempK, atmosphericDB float64) float64 {
	aLin := math.Pow(10, atmosphericDB/10)
	return skyTempK/aLin + meanRadiatingTemp*(1-1/aLin) + groundTempK
}

// systemNoiseTemp refers the feed losses and the LNB to the antenna
// port: lossy feed components radiate at the reference temperature and
// the LNB contribution is divided down by its own gain.
func systemNoiseTemp(antennaNoiseK float64, chain ReceiveChain) float64 {
	lossLin := math.Pow(10, (chain.CouplingLossDB+chain.CableLossDB)/10)
	tLoss := referenceTemp * (lossLin - 1)
	return antennaNoiseK + chain.LNBNoiseTempK + tLoss/math.Pow(10, chain.LNBGainDB/10)
}

// figureOfMerit composes G/T per ITU-R BO.790 from the derived noise
// chain. alpha and beta are the linear feed-loss and pointing-loss
// factors; n is the system noise figure referred to 290 K.
func figureOfMerit(gainDBi, pointingLossDB, antennaNoiseK, systemNoiseK float64, chain ReceiveChain) float64 {
	alpha := math.Pow(10, (chain.CouplingLossDB+chain.CableLossDB)/10)
	beta := math.Pow(10, pointingLossDB/10)
	g := math.Pow(10, gainDBi/10)
	n := systemNoiseK/referenceTemp + 1
	return 10 * math.Log10(alpha*beta*g/(alpha*antennaNoiseK+(1-alpha)*referenceTemp+(n-1)*referenceTemp))
}
