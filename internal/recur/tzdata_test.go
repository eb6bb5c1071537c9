package recur

import _ "time/tzdata"
