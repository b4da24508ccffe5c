package domain

// KeyPrefix is the default namespace for every storage key.
const KeyPrefix = "movierec:"
