package costs

// ArccosJet exposes the Taylor-jet path of ArccosJ so it can be checked
// against the closed forms.
var ArccosJet = arccosJet
